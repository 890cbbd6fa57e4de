package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/user7217/OSS-Engine/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	envVars := []string{
		"OSSENGINE_CONFIG",
		"OSSENGINE_ADDR",
		"OSSENGINE_LOG_LEVEL",
		"OSSENGINE_GITHUB_TOKEN",
		"OSSENGINE_GEMINI_API_KEY",
		"OSSENGINE_CACHE_PATH",
		"OSSENGINE_BATCH_WORKERS",
		"OSSENGINE_DEEP_SCORE_LIMIT",
		"OSSENGINE_SEARCH_MAX_REPOS",
	}
	for _, v := range envVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "ossengine-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	Convey("Given a config loader", t, func() {
		Convey("When loading with defaults only", func() {
			clearConfigEnvVars()
			cfg, err := config.Load(ctx)

			Convey("Then the defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.CachePath, ShouldEqual, "score_cache.json")
				So(cfg.BatchWorkers, ShouldEqual, 10)
				So(cfg.DeepScoreLimit, ShouldEqual, 15)
				So(cfg.SearchMaxRepos, ShouldEqual, 100)
				So(cfg.GitHubTimeoutSec, ShouldEqual, 15)
				So(cfg.LLMTimeoutSec, ShouldEqual, 30)
			})
		})

		Convey("When environment variables are set", func() {
			_ = os.Setenv("OSSENGINE_ADDR", ":9191")
			_ = os.Setenv("OSSENGINE_GITHUB_TOKEN", "ghp_dummy")
			_ = os.Setenv("OSSENGINE_BATCH_WORKERS", "4")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then they override the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9191")
				So(cfg.GitHubToken, ShouldEqual, "ghp_dummy")
				So(cfg.BatchWorkers, ShouldEqual, 4)
			})
		})

		Convey("When a YAML file and env vars are both present", func() {
			tmp := createTempConfigFile(t, "addr: \":7070\"\ncache_path: /tmp/scores.json\nbatch_workers: 3\n")
			_ = os.Setenv("OSSENGINE_CONFIG", tmp)
			_ = os.Setenv("OSSENGINE_ADDR", ":7071")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then env beats file beats defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7071")
				So(cfg.CachePath, ShouldEqual, "/tmp/scores.json")
				So(cfg.BatchWorkers, ShouldEqual, 3)
				So(cfg.DeepScoreLimit, ShouldEqual, 15)
			})
		})

		Convey("When the config file does not exist", func() {
			_ = os.Setenv("OSSENGINE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails with the load sentinel", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When addr is emptied", func() {
			_ = os.Setenv("OSSENGINE_ADDR", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then validation rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "addr must not be empty")
			})
		})

		Convey("When batch_workers is not positive", func() {
			_ = os.Setenv("OSSENGINE_BATCH_WORKERS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then validation rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "batch_workers")
			})
		})
	})
}
