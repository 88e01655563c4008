package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// pathID binds the int64 path parameter name. On failure it writes a 400
// and returns ok == false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id <= 0 {
		requestError(w, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryInt binds an optional integer query parameter. Absent or unparsable
// values come back as nil.
func queryInt(r *http.Request, name string) *int {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		return nil
	}
	return v
}
