package llm_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user7217/OSS-Engine/internal/adapters/llm"
	"github.com/user7217/OSS-Engine/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestParseScore(t *testing.T) {
	Convey("Given free-text model responses", t, func() {
		Convey("A bare number parses", func() {
			v, err := llm.ParseScore("7.5")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 7.5)
		})

		Convey("The first decimal number wins", func() {
			v, err := llm.ParseScore("I would rate this 8.25 out of 10")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 8.25)
		})

		Convey("Integers parse too", func() {
			v, err := llm.ParseScore("Score: 9")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 9)
		})

		Convey("Text without a number is an unparsable-score error", func() {
			_, err := llm.ParseScore("excellent work, no notes")
			So(errors.Is(err, llm.ErrUnparsableScore), ShouldBeTrue)
		})
	})
}

func TestScorer_ScoreText(t *testing.T) {
	ctx := context.Background()

	Convey("Given a provider answering with a numeric score", t, func() {
		scorer := llm.NewScorer(llm.NewMock("8.5/10, solid"))

		Convey("Then ScoreText returns the parsed number", func() {
			v, err := scorer.ScoreText(ctx, "rate this")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 8.5)
		})
	})

	Convey("Given a failing provider", t, func() {
		mock := llm.NewMock("")
		mock.Err = errors.New("connection refused")
		scorer := llm.NewScorer(mock)

		Convey("Then the error propagates for the caller to fail open", func() {
			_, err := scorer.ScoreText(ctx, "rate this")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a provider answering without any number", t, func() {
		scorer := llm.NewScorer(llm.NewMock("looks great"))

		Convey("Then ScoreText surfaces the unparsable-score sentinel", func() {
			_, err := scorer.ScoreText(ctx, "rate this")
			So(errors.Is(err, llm.ErrUnparsableScore), ShouldBeTrue)
		})
	})
}

func TestGeminiProvider(t *testing.T) {
	Convey("Given a mock Gemini endpoint", t, func(c C) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.So(r.Method, ShouldEqual, http.MethodPost)
			c.So(r.URL.Path, ShouldContainSubstring, ":generateContent")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"7"}]}}]}`))
		}))
		defer server.Close()

		provider := llm.NewGeminiForTest(server.URL, server.Client())

		Convey("Then Generate returns the candidate text", func() {
			text, err := provider.Generate(context.Background(), "rate this")
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "7")
		})
	})

	Convey("Creating a Gemini provider without a key fails", t, func() {
		_, err := llm.NewGemini("", "")
		So(errors.Is(err, llm.ErrNoProvider), ShouldBeTrue)
	})
}

func TestResolve(t *testing.T) {
	Convey("Given configured credentials", t, func() {
		Convey("Gemini wins when both keys are set", func() {
			p, err := llm.Resolve(llm.Credentials{GeminiAPIKey: "g", OpenAIAPIKey: "o"})
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "gemini")
		})

		Convey("OpenAI is the fallback", func() {
			p, err := llm.Resolve(llm.Credentials{OpenAIAPIKey: "o"})
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "openai")
		})

		Convey("No keys at all is an error", func() {
			_, err := llm.Resolve(llm.Credentials{})
			So(errors.Is(err, llm.ErrNoProvider), ShouldBeTrue)
		})
	})
}
