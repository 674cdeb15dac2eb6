package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// FlashSessionName is the name of the signed cookie holding pending flashes.
const FlashSessionName = "flash"

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// FlashSessions installs the signed cookie store SetFlash and PopFlashes use.
func FlashSessions(secret []byte, secure bool) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(FlashSessionName, store)
}

// SetFlash queues a one-time message for the next page the browser renders.
func SetFlash(c *gin.Context, level, message string) {
	s := flashSession(c)
	if s == nil {
		return
	}
	s.AddFlash(Flash{Level: level, Message: message})
	_ = s.Save()
}

// PopFlashes returns the queued messages and clears them.
func PopFlashes(c *gin.Context) []Flash {
	s := flashSession(c)
	if s == nil {
		return nil
	}
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}

// flashSession is nil when FlashSessions is not installed on the engine.
func flashSession(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}
