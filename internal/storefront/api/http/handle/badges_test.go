package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hamburgueria/internal/xpkg/logger"
)

func alive(context.Context) error { return nil }

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		code   int
		want   map[string]string
	}{
		{
			name: "no checks",
			code: http.StatusOK,
			want: map[string]string{"status": "ok"},
		},
		{
			name:   "all up",
			checks: []HealthCheck{{Name: "store", Alive: alive}, {Name: "broker", Alive: alive}},
			code:   http.StatusOK,
			want:   map[string]string{"status": "ok", "store": "ok", "broker": "ok"},
		},
		{
			name: "broker down",
			checks: []HealthCheck{
				{Name: "store", Alive: alive},
				{Name: "broker", Alive: func(context.Context) error { return errors.New("channel closed") }},
			},
			code: http.StatusServiceUnavailable,
			want: map[string]string{"status": "degraded", "store": "ok", "broker": "down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Health(logger.Nop(), tt.checks...)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			var got map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
