package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/xerrors"
)

func render(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]any) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fn(c)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestSuccess(t *testing.T) {
	rec, body := render(func(c *gin.Context) { Success(c, gin.H{"mean": 1.5}) })
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["code"])
	assert.Equal(t, "success", body["msg"])
}

func TestErrorMapsXErrors(t *testing.T) {
	rec, body := render(func(c *gin.Context) {
		Error(c, xerrors.Errorf(xerrors.ErrZeroPaths, "got %d", 0))
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.EqualValues(t, 410002, body["code"])
	assert.Equal(t, "got 0", body["detail"])

	rec, _ = render(func(c *gin.Context) {
		Error(c, xerrors.Errorf(xerrors.ErrLimitPaths, "too many"))
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestErrorFallsBackTo500(t *testing.T) {
	rec, body := render(func(c *gin.Context) { Error(c, errors.New("boom")) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "boom", body["detail"])
}
