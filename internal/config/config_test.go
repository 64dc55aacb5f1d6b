package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/wasuremon/internal/config"
	"github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.CachePath, convey.ShouldEqual, "wasuremon.db")
			convey.So(cfg.RemoteBaseURL, convey.ShouldBeEmpty)
			convey.So(cfg.RemoteTimeout(), convey.ShouldEqual, 3*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the locale parses to Japanese", func() {
			tag, err := cfg.LocaleTag()
			convey.So(err, convey.ShouldBeNil)
			convey.So(tag, convey.ShouldEqual, language.Japanese)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad fields", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":       func(c *config.Config) { c.Addr = "" },
			"empty cache path": func(c *config.Config) { c.CachePath = "" },
			"negative timeout": func(c *config.Config) { c.RemoteTimeoutMS = -1 },
			"bad locale":       func(c *config.Config) { c.Locale = "not a tag!" },
			"bad timezone":     func(c *config.Config) { c.Timezone = "Mars/Olympus" },
		}
		for name, mutate := range cases {
			convey.Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the timezone is a real zone", func() {
			cfg := config.New()
			cfg.Timezone = "Asia/Tokyo"
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "Asia/Tokyo")
		})
	})
}
