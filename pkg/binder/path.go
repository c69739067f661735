package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path binds router path parameters into fields tagged `path:"name"`.
// Fields without the tag are left alone so Path can run alongside JSON.
//
//	type updateProjectRequest struct {
//		ID    uuid.UUID `path:"id" json:"-"`
//		Title string    `json:"title"`
//	}
//
//	handler.WithBinders[handler.Context, updateProjectRequest](binder.Path(chi.URLParam), binder.JSON())
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}

		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return ErrInvalidTarget
		}
		rv = rv.Elem()
		rt := rv.Type()

		for i := range rv.NumField() {
			field := rv.Field(i)
			sf := rt.Field(i)

			name, ok := sf.Tag.Lookup("path")
			if !ok || name == "" || name == "-" || !field.CanSet() {
				continue
			}

			value := extractor(r, name)
			if value == "" {
				continue
			}

			if err := setFieldValue(field, value); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidPath, name, err)
			}
		}

		return nil
	}
}
