package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/utils/banner"
	"github.com/RedBear961/qrcreator/pkg/codegen"
)

type renderRequest struct {
	text  string
	kind  codegen.Kind
	size  int
	style preferences.CodeStyle
	level codegen.Level
}

// parseRender reads the query; absent parameters fall back to the stored preferences.
func (s *Server) parseRender(r *http.Request) (renderRequest, error) {
	q := r.URL.Query()
	settings := s.Prefs.Snapshot()

	req := renderRequest{
		text:  q.Get("text"),
		size:  int(settings.Resolution),
		style: settings.CodeStyle,
		level: settings.QRCodeLevel,
	}

	var err error
	if req.kind, err = codegen.ParseKind(q.Get("kind")); err != nil {
		return req, err
	}
	if v := q.Get("size"); v != "" {
		if req.size, err = parseSize(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("style"); v != "" {
		if req.style, err = preferences.ParseCodeStyle(v); err != nil {
			return req, err
		}
	}
	if v := q.Get("level"); v != "" {
		if req.level, err = codegen.ParseLevel(v); err != nil {
			return req, err
		}
	}
	return req, nil
}

func parseSize(v string) (int, error) {
	size, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", v)
	}
	if size <= 0 || size > codegen.MaxSize {
		return 0, fmt.Errorf("size must be between 1 and %d", codegen.MaxSize)
	}
	return size, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRender(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	gen, err := codegen.New(req.kind, req.style.Palette(), req.level)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := gen.Generate(req.text, req.size)
	if err != nil {
		if errors.Is(err, errorz.ErrEncodingFailed) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.Log.Errorf("failed to render %s code: %v", req.kind, err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	data, err := codegen.EncodePNG(img)
	if err != nil {
		s.Log.Errorf("failed to encode PNG: %v", err)
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	writePNG(w, data)
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	size := 256
	if v := r.URL.Query().Get("size"); v != "" {
		var err error
		if size, err = parseSize(v); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	data, err := codegen.EncodePNG(banner.Placeholder(size))
	if err != nil {
		s.Log.Errorf("failed to encode placeholder: %v", err)
		writeError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	writePNG(w, data)
}
