package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

func bindRequest(r *http.Request, req any) error {
	if r.Method == http.MethodGet {
		return bindQuery(r, req)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, req)
}

// bindQuery fills the request struct from URL query parameters keyed by
// the json tag of each field.
func bindQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("expected a struct request, got %s", t.Kind())
	}

	query := r.URL.Query()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.Split(field.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}

		if !query.Has(name) {
			continue
		}

		raw := query.Get(name)
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.String:
			fv.SetString(raw)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			fv.SetInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			fv.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			fv.SetBool(b)
		default:
			return fmt.Errorf("unsupported query field %s of kind %s", name, fv.Kind())
		}
	}

	return nil
}
