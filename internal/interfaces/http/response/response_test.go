package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	domainChat "github.com/recipechat/backend/internal/domain/chat"
	"github.com/recipechat/backend/internal/domain/recipe"
)

func TestClassify(t *testing.T) {
	storeErr := &recipe.StoreUnavailableError{Op: "query", Err: errors.New("dial")}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("get: %w", recipe.ErrRecordNotFound), http.StatusNotFound, CodeNotFound},
		{"fetch", &recipe.FetchError{URL: "u", StatusCode: 502, Err: errors.New("bad gateway")}, http.StatusInternalServerError, CodeFetchError},
		{"embedding", fmt.Errorf("embed: %w", &recipe.EmbeddingServiceError{Err: errors.New("x")}), http.StatusInternalServerError, CodeEmbeddingError},
		{"store", storeErr, http.StatusInternalServerError, CodeStoreUnavailable},
		{"extraction", fmt.Errorf("%w: all failed", recipe.ErrExtractionFailed), http.StatusInternalServerError, CodeExtractionFailed},
		{"graph wraps store", &domainChat.GraphExecutionError{Node: domainChat.NodeRetrieve, Err: storeErr}, http.StatusInternalServerError, CodeGraphFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
