package config

import (
	"reflect"
	"strings"
)

// replaceEnvKeys walks data and replaces any string field whose value
// starts with "$" with getenv of the rest of that string, the same $FOO
// convention dexidp/dex's cmd/dex config_env_replacer.go uses for secrets
// that should come from the environment rather than the YAML file itself.
// A value with a further "$" after the first (a bcrypt or Argon2id hash
// such as "$2a$10$...") is left as it is, since no environment variable
// name contains one.
func replaceEnvKeys(data interface{}, getenv func(string) string) error {
	val := reflect.ValueOf(data)

	if val.Kind() != reflect.Interface && val.Kind() != reflect.Ptr {
		return nil
	}

	s := val.Elem()
	if !s.CanSet() {
		return nil
	}

	if s.Kind() == reflect.String {
		value := s.Interface().(string)
		if len(value) > 2 && string(value[0]) == "$" && !strings.Contains(value[1:], "$") {
			s.SetString(getenv(value[1:]))
		}
		return nil
	}

	if s.Kind() == reflect.Struct {
		for i := 0; i < s.NumField(); i++ {
			f := s.Field(i)
			if err := replaceEnvKeys(f.Addr().Interface(), getenv); err != nil {
				return err
			}
		}
		return nil
	}

	if s.Kind() == reflect.Slice {
		for i := 0; i < s.Len(); i++ {
			if err := replaceEnvKeys(s.Index(i).Addr().Interface(), getenv); err != nil {
				return err
			}
		}
		return nil
	}

	return nil
}
