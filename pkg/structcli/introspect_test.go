package structcli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type BaseOptions struct {
	Verbose bool `flag:"verbose,v" desc:"Verbose output"`
}

type databaseOptions struct {
	Host string `flag:"" default:"localhost"`
	Port int    `flag:"" default:"5432"`
}

type introspectRecord struct {
	BaseOptions
	Name     string          `arg:""`
	Database databaseOptions `prefix:"db"`
	Plain    int
	internal string
}

func TestFields(t *testing.T) {
	fields, err := FieldsOf[introspectRecord]()
	require.NoError(t, err)
	require.Len(t, fields, 4)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"BaseOptions.Verbose", "Name", "Database.Host", "Database.Port"}, names)

	assert.Equal(t, []int{0, 0}, fields[0].Index)
	assert.Equal(t, reflect.TypeFor[bool](), fields[0].Type)
	assert.Equal(t, "verbose", fields[0].Decl.Name)
	assert.Empty(t, fields[0].Prefix)

	assert.Equal(t, KindArgument, fields[1].Decl.Kind)

	assert.Equal(t, []int{2, 1}, fields[3].Index)
	assert.Equal(t, "db", fields[3].Prefix)
	assert.Equal(t, reflect.TypeFor[int](), fields[3].Type)
}

func TestFieldsCacheReturnsCopies(t *testing.T) {
	first, err := FieldsOf[introspectRecord]()
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := FieldsOf[introspectRecord]()
	require.NoError(t, err)
	assert.Equal(t, "BaseOptions.Verbose", second[0].Name)
}

type nestedPrefixRecord struct {
	Outer struct {
		Inner struct {
			Value string `flag:""`
		} `prefix:"inner"`
	} `prefix:"outer"`
}

func TestFieldsNestedPrefix(t *testing.T) {
	fields, err := FieldsOf[nestedPrefixRecord]()
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "Outer.Inner.Value", fields[0].Name)
	assert.Equal(t, "outer-inner", fields[0].Prefix)
}

type prefixedEmbedRecord struct {
	BaseOptions `prefix:"base"`

	Name string `flag:""`
}

func TestFieldsPrefixOnEmbeddedStruct(t *testing.T) {
	fields, err := FieldsOf[prefixedEmbedRecord]()
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "BaseOptions.Verbose", fields[0].Name)
	assert.Equal(t, "base", fields[0].Prefix)
	assert.Empty(t, fields[1].Prefix)
}

type unexportedParam struct {
	name string `flag:""`
}

type embeddedPointer struct {
	*BaseOptions
}

type prefixNotStruct struct {
	Value string `prefix:"v"`
}

type selfEmbedding struct {
	*selfEmbedding
	Name string `flag:"name"`
}

type cycleLeft struct {
	*cycleRight
}

type cycleRight struct {
	*cycleLeft
}

type conflictingTags struct {
	Value string `flag:"value" arg:"value"`
}

func TestFieldsErrors(t *testing.T) {
	testCases := []struct {
		name string
		typ  reflect.Type
		want error
	}{
		{"not a struct", reflect.TypeFor[int](), ErrNotStruct},
		{"nil type", nil, ErrNotStruct},
		{"unexported parameter", reflect.TypeFor[unexportedParam](), ErrInvalidTag},
		{"embedded pointer", reflect.TypeFor[embeddedPointer](), ErrInvalidTag},
		{"prefix on non struct", reflect.TypeFor[prefixNotStruct](), ErrInvalidTag},
		{"flag and arg", reflect.TypeFor[conflictingTags](), ErrInvalidTag},
		{"embeds itself", reflect.TypeFor[selfEmbedding](), ErrInvalidTag},
		{"mutual embedding", reflect.TypeFor[cycleLeft](), ErrInvalidTag},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fields(tc.typ)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestFieldsErrorNamesField(t *testing.T) {
	_, err := Fields(reflect.TypeFor[conflictingTags]())
	require.Error(t, err)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "conflictingTags", e.Record)
	assert.Equal(t, "Value", e.Field)
}
