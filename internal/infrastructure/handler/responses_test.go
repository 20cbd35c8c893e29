package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/vaddi-calculator/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	log := logger.NewJSONLogger(&bytes.Buffer{}, logger.InfoLevel)

	t.Run("Encodable body keeps its status", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSON(w, log, http.StatusCreated, map[string]int{"count": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"count":1}`, w.Body.String())
	})

	t.Run("Non-finite number becomes a 500 with a body", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSON(w, log, http.StatusOK, QuoteResponse{Interest: math.Inf(1)})

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var errResp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, http.StatusInternalServerError, errResp.Status)
		assert.Equal(t, "Internal server error", errResp.Error)
	})
}
