package ez

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"taskboard/internal/domain"
	resp "taskboard/internal/transport/http/response"
)

// KeyMessage lets a handler override the action's success message.
const KeyMessage = "ez.message"

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON         Binder = "json"          // body required
	BindJSONOptional Binder = "json_optional" // empty body leaves I zero
	BindQuery        Binder = "query"
	BindNone         Binder = "none" // read c.Param yourself
)

// Action is one endpoint: I is the bound input, O the envelope data.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Title   string // envelope message for binding failures, e.g. "Task Validation Error"
	Message string // envelope message on success
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			title := a.Title
			if title == "" {
				title = "Bad Request"
			}
			c.JSON(http.StatusBadRequest, resp.Error(http.StatusBadRequest, title, BindMessages(err)...))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		msg := a.Message
		if m := c.GetString(KeyMessage); m != "" {
			msg = m
		}
		c.JSON(http.StatusOK, resp.OK(out, msg))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindJSONOptional:
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			return nil
		}
		err := c.ShouldBindJSON(in)
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	case BindQuery:
		return c.ShouldBindWith(in, binding.Query)
	}
	return nil
}

// StatusOf maps a domain error kind to an HTTP status.
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindInvalidArgument, domain.KindInvalidTransition, domain.KindBadIdentifier:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Fail writes err as an envelope. Internal errors are logged through
// c.Error and answered without their cause.
func Fail(c *gin.Context, err error) {
	status := StatusOf(err)
	var de *domain.Error
	if status == http.StatusInternalServerError || !errors.As(err, &de) {
		_ = c.Error(err)
		c.JSON(status, resp.Error(status, ""))
		return
	}
	c.JSON(status, resp.Error(status, de.Title, de.Msgs...))
}
