package cache

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRedis_Unreachable(t *testing.T) {
	Convey("Given a redis address nothing listens on", t, func() {
		start := time.Now()
		r, err := NewRedis(RedisConfig{Host: "127.0.0.1", Port: "1", TTL: time.Minute})

		Convey("Then construction fails fast with a wrapped error", func() {
			So(r, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to connect to redis")
			So(time.Since(start), ShouldBeLessThan, 6*time.Second)
		})
	})
}
