package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/pkg/codegen"
)

// preferencesPatch holds the fields to change; nil fields are left untouched.
type preferencesPatch struct {
	LiveGeneration *bool                  `json:"live_generation"`
	Resolution     *uint                  `json:"resolution"`
	CodeStyle      *preferences.CodeStyle `json:"code_style"`
	QRCodeLevel    *codegen.Level         `json:"qr_code_level"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Prefs.Snapshot())
}

func (s *Server) handlePatchPreferences(w http.ResponseWriter, r *http.Request) {
	var patch preferencesPatch
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	// validate everything up front so a bad field changes nothing
	if v := patch.Resolution; v != nil && (*v == 0 || *v > codegen.MaxSize) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("resolution must be between 1 and %d", codegen.MaxSize))
		return
	}
	if patch.QRCodeLevel != nil {
		level, err := codegen.ParseLevel(string(*patch.QRCodeLevel))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch.QRCodeLevel = &level
	}

	var errs []error
	if patch.LiveGeneration != nil {
		errs = append(errs, s.Prefs.SetLiveGeneration(*patch.LiveGeneration))
	}
	if patch.Resolution != nil {
		errs = append(errs, s.Prefs.SetResolution(*patch.Resolution))
	}
	if patch.CodeStyle != nil {
		errs = append(errs, s.Prefs.SetCodeStyle(*patch.CodeStyle))
	}
	if patch.QRCodeLevel != nil {
		errs = append(errs, s.Prefs.SetQRCodeLevel(*patch.QRCodeLevel))
	}

	s.respondPreferences(w, errors.Join(errs...))
}

func (s *Server) handleResetPreferences(w http.ResponseWriter, _ *http.Request) {
	s.respondPreferences(w, s.Prefs.Reset())
}

// respondPreferences reports the current settings. A persistence failure still
// leaves the new values active, so it is reported next to them.
func (s *Server) respondPreferences(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.Prefs.Snapshot())
	case errors.Is(err, errorz.ErrInvalidValue):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.Log.Errorf("failed to persist preferences: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":       "preferences applied but not persisted",
			"preferences": s.Prefs.Snapshot(),
		})
	}
}
