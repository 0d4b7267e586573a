package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtivaInvest/crm-financeiro/internal/config"
)

// originMatcher decide se uma origem está liberada: lista exata, curinga
// total ("*") ou padrões com "*" embutido (ex.: https://*.exemplo.com).
type originMatcher struct {
	allowAll bool
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

func newOriginMatcher(origins []string) *originMatcher {
	m := &originMatcher{exact: map[string]struct{}{}}

	for _, raw := range origins {
		origin := config.NormalizeOrigin(raw)
		if origin == "" {
			continue
		}
		if origin == "*" {
			m.allowAll = true
			continue
		}
		if strings.Contains(origin, "*") {
			pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(origin), `\*`, ".*") + "$"
			if re, err := regexp.Compile(pattern); err == nil {
				m.patterns = append(m.patterns, re)
			}
			continue
		}
		m.exact[origin] = struct{}{}
	}

	return m
}

func (m *originMatcher) allowed(origin string) bool {
	if origin == "" || origin == "null" || m.allowAll {
		return true
	}

	normalized := config.NormalizeOrigin(origin)
	if _, ok := m.exact[normalized]; ok {
		return true
	}
	for _, re := range m.patterns {
		if re.MatchString(normalized) {
			return true
		}
	}
	return false
}

func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	matcher := newOriginMatcher(cfg.FrontendURLs)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && matcher.allowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set(
				"Access-Control-Allow-Headers",
				"Content-Type, Authorization",
			)
			c.Writer.Header().Set(
				"Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS",
			)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
