package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (int, Response) {
	t.Helper()

	router := gin.New()
	router.GET("/test", handler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestSuccess(t *testing.T) {
	status, resp := serve(t, func(c *gin.Context) {
		Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "value", data["key"])
}

func TestSuccess_NilData(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		Success(c, nil)
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestSuccessWithMessage(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		SuccessWithMessage(c, "deleted", gin.H{"result": true})
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "deleted", resp.Message)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name        string
		call        func(*gin.Context, string)
		message     string
		wantCode    int
		wantMessage string
	}{
		{name: "param custom", call: ParamError, message: "limit must be positive", wantCode: CodeParamError, wantMessage: "limit must be positive"},
		{name: "param default", call: ParamError, wantCode: CodeParamError, wantMessage: "invalid parameters"},
		{name: "not found default", call: NotFoundError, wantCode: CodeResourceNotFound, wantMessage: "resource not found"},
		{name: "upstream default", call: UpstreamError, wantCode: CodeUpstreamError, wantMessage: "upstream service unavailable"},
		{name: "server custom", call: ServerError, message: "boom", wantCode: CodeServerError, wantMessage: "boom"},
		{name: "server default", call: ServerError, wantCode: CodeServerError, wantMessage: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := serve(t, func(c *gin.Context) {
				tt.call(c, tt.message)
			})

			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestError_UnknownCode(t *testing.T) {
	_, resp := serve(t, func(c *gin.Context) {
		Error(c, 9999, "")
	})

	assert.Equal(t, 9999, resp.Code)
	assert.Empty(t, resp.Message)
}
