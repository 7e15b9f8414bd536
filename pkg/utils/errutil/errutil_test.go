package errutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("5xx hides raw error text", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := goerr.New("database exploded", goerr.V("dsn", "sqlite://secret.db"))

		errutil.HandleHTTP(context.Background(), w, err, http.StatusInternalServerError)

		gt.Value(t, w.Code).Equal(http.StatusInternalServerError)
		gt.String(t, w.Body.String()).Contains(errutil.GenericMessage)
		gt.String(t, w.Body.String()).NotContains("exploded")
		gt.String(t, w.Body.String()).NotContains("secret.db")
	})

	t.Run("4xx returns status text", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, goerr.New("no such assessment"), http.StatusNotFound)

		gt.Value(t, w.Code).Equal(http.StatusNotFound)
		gt.String(t, w.Body.String()).Contains("Not Found")
		gt.String(t, w.Body.String()).NotContains("assessment")
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
		gt.Value(t, w.Body.Len()).Equal(0)
	})
}

func TestHandle(t *testing.T) {
	err := goerr.New("boom")
	gt.Value(t, errutil.Handle(context.Background(), err, "failed")).Equal(err)
	gt.NoError(t, errutil.Handle(context.Background(), nil, "noop"))
}
