package structcli

import (
	"net"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoolType(t *testing.T) {
	for _, in := range []string{"1", "true", "T", "yes", "y", "on", " ON "} {
		v, err := Bool.Convert(in)
		require.NoError(t, err, in)
		assert.Equal(t, true, v, in)
	}
	for _, in := range []string{"0", "false", "F", "no", "n", "off"} {
		v, err := Bool.Convert(in)
		require.NoError(t, err, in)
		assert.Equal(t, false, v, in)
	}

	_, err := Bool.Convert("maybe")
	assert.Error(t, err)
}

type port uint16

func TestNumericTypes(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		v, err := Int.Convert("42")
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		_, err = Int.Convert("forty")
		assert.Error(t, err)
	})

	t.Run("int8 range", func(t *testing.T) {
		pt, ok := kindType(reflect.TypeFor[int8]())
		require.True(t, ok)

		v, err := pt.Convert("-128")
		require.NoError(t, err)
		assert.Equal(t, int8(-128), v)

		_, err = pt.Convert("200")
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("named uint", func(t *testing.T) {
		pt, ok := kindType(reflect.TypeFor[port]())
		require.True(t, ok)
		assert.Equal(t, "uint16", pt.Name())

		v, err := pt.Convert("8080")
		require.NoError(t, err)
		assert.Equal(t, port(8080), v)

		_, err = pt.Convert("-1")
		assert.Error(t, err)
	})

	t.Run("float", func(t *testing.T) {
		v, err := Float.Convert("2.5")
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
		assert.Equal(t, "float", Float.Name())
	})
}

func TestDurationAndUUID(t *testing.T) {
	v, err := Duration.Convert("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, v)

	_, err = Duration.Convert("soon")
	assert.Error(t, err)

	id := uuid.New()
	v, err = UUID.Convert(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, v)

	_, err = UUID.Convert("not-a-uuid")
	assert.Error(t, err)
}

func TestDateTime(t *testing.T) {
	testCases := []struct {
		in       string
		expected time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01T10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01 10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := DateTime{}.Convert(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(v.(time.Time)), "got %v", v)
		})
	}

	t.Run("custom format", func(t *testing.T) {
		v, err := DateTime{Formats: []string{"02/01/2006"}}.Convert("25/12/2023")
		require.NoError(t, err)
		assert.True(t, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC).Equal(v.(time.Time)))
	})

	t.Run("no match", func(t *testing.T) {
		_, err := DateTime{}.Convert("yesterday")
		assert.ErrorContains(t, err, "does not match")
	})
}

func TestPathType(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(file, []byte("x: 1\n"), 0o600))
	missing := filepath.Join(dir, "missing")

	v, err := PathType{}.Convert(missing)
	require.NoError(t, err)
	assert.Equal(t, Path(missing), v)

	_, err = PathType{MustExist: true}.Convert(missing)
	assert.ErrorContains(t, err, "does not exist")

	_, err = PathType{FileOnly: true}.Convert(dir)
	assert.ErrorContains(t, err, "is a directory")

	_, err = PathType{DirOnly: true}.Convert(file)
	assert.ErrorContains(t, err, "is a file")

	_, err = PathType{}.Convert("")
	assert.Error(t, err)

	assert.Equal(t, "path", PathType{}.Name())
	assert.Equal(t, "file", PathType{FileOnly: true}.Name())
	assert.Equal(t, "directory", PathType{DirOnly: true}.Name())
}

func TestChoice(t *testing.T) {
	c := Choice{Choices: []string{"text", "json"}}
	assert.Equal(t, "text|json", c.Name())

	v, err := c.Convert("json")
	require.NoError(t, err)
	assert.Equal(t, "json", v)

	_, err = c.Convert("JSON")
	assert.ErrorContains(t, err, "is not one of text, json")

	v, err = Choice{Choices: c.Choices, IgnoreCase: true}.Convert("JSON")
	require.NoError(t, err)
	assert.Equal(t, "json", v)
}

func TestIntRange(t *testing.T) {
	r := IntRange{Min: 1, Max: 10}

	v, err := r.Convert("10")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	_, err = r.Convert("11")
	assert.ErrorContains(t, err, "is not in the range 1 to 10")

	_, err = r.Convert("ten")
	assert.Error(t, err)
}

func TestTextType(t *testing.T) {
	pt, ok := NewTextType(reflect.TypeFor[net.IP]())
	require.True(t, ok)
	assert.Equal(t, "ip", pt.Name())

	v, err := pt.Convert("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, net.ParseIP("10.0.0.1").Equal(v.(net.IP)))

	_, err = pt.Convert("not-an-ip")
	assert.Error(t, err)

	_, ok = NewTextType(reflect.TypeFor[string]())
	assert.False(t, ok)
}

func TestKindTypeUnsupported(t *testing.T) {
	_, ok := kindType(reflect.TypeFor[map[string]int]())
	assert.False(t, ok)
}
