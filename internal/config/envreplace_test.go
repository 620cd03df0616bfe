package config

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

type testStruct struct {
	Int    int
	String string
	NotMe  string
}

type testTop struct {
	Int    int
	String string
	Struct testStruct
	Hash   string // bcrypt hashes start with "$2a$" and must not be treated as env references
	Map    map[string]interface{}
}

func TestReplaceEnvKeys(t *testing.T) {
	data := &testTop{
		String: "$replace_me",
		Hash:   "$2a$10$33EMT0cVYVlPy6WAMCLsceLYjWhuHpbz5yuZxu/GAFj03J9Lytjuy",
		Struct: testStruct{
			String: "$me_too",
			NotMe:  "$does_not_exist",
		},
	}

	replacer := func(key string) string {
		switch key {
		case "replace_me":
			return "foo"
		case "me_too":
			return "bar"
		default:
			return ""
		}
	}

	if err := replaceEnvKeys(data, replacer); err != nil {
		t.Fatalf("got unexpected error: %s", err)
	}

	expected := &testTop{
		String: "foo",
		Struct: testStruct{String: "bar", NotMe: ""},
		Hash:   "$2a$10$33EMT0cVYVlPy6WAMCLsceLYjWhuHpbz5yuZxu/GAFj03J9Lytjuy",
	}
	if diff := pretty.Compare(data, expected); diff != "" {
		t.Errorf("got!=want: %s", diff)
	}
}
