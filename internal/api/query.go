package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lox/whattowear/internal/models"
)

// parseQuery reads geocode, units and language, falling back to the
// configured defaults for anything missing.
func (s *Server) parseQuery(r *http.Request) (models.Query, error) {
	q := s.defaults
	v := r.URL.Query()

	if g := strings.TrimSpace(v.Get("geocode")); g != "" {
		coords, err := models.ParseGeocode(g)
		if err != nil {
			return models.Query{}, err
		}
		q.Coordinates = coords
	}
	if u := strings.TrimSpace(v.Get("units")); u != "" {
		q.Units = u
	}
	if l := strings.TrimSpace(v.Get("language")); l != "" {
		q.Language = l
	}

	if err := s.validate.Struct(q); err != nil {
		return models.Query{}, queryError(err)
	}
	return q, nil
}

func queryError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("invalid query: %w", err)
	}
	fields := make([]string, len(ve))
	for i, fe := range ve {
		fields[i] = fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("invalid query: %s", strings.Join(fields, ", "))
}
