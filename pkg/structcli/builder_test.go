package structcli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/conneroisu/structcli/internal/logging"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetRecord struct {
	Name     string         `arg:"" desc:"Who to greet"`
	Greeting string         `flag:"greeting,g" default:"Hello" desc:"Greeting to use"`
	Count    int            `flag:"" default:"1"`
	Shout    bool           `flag:""`
	Tags     []string       `flag:"tag"`
	Timeout  *time.Duration `flag:""`
}

func TestBindRegistersOptions(t *testing.T) {
	cmd := &cobra.Command{Use: "greet"}
	b, err := Bind[greetRecord](cmd)
	require.NoError(t, err)
	require.Len(t, b.Params(), 6)

	greeting := cmd.Flags().Lookup("greeting")
	require.NotNil(t, greeting)
	assert.Equal(t, "g", greeting.Shorthand)
	assert.Equal(t, "Hello", greeting.DefValue)
	assert.Equal(t, "string", greeting.Value.Type())
	assert.Equal(t, "Greeting to use", greeting.Usage)

	shout := cmd.Flags().Lookup("shout")
	require.NotNil(t, shout)
	assert.Equal(t, "true", shout.NoOptDefVal)

	tags := cmd.Flags().Lookup("tag")
	require.NotNil(t, tags)
	assert.Contains(t, tags.Usage, "(can be repeated)")

	assert.NotNil(t, cmd.Flags().Lookup("timeout"))
	assert.Nil(t, cmd.Flags().Lookup("name"), "arguments are not flags")

	name := b.Params()[0]
	assert.Equal(t, KindArgument, name.Kind)
	assert.Equal(t, "NAME", name.Metavar)
	assert.Nil(t, name.Flag())
	assert.Equal(t, greeting, b.Params()[1].Flag())
}

type requiredPortRecord struct {
	Port int `flag:"" desc:"Port to bind"`
}

func TestBindMarksRequiredFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "serve"}
	_, err := Bind[requiredPortRecord](cmd)
	require.NoError(t, err)

	port := cmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "Port to bind (required)", port.Usage)
	assert.Equal(t, []string{"true"}, port.Annotations[cobra.BashCompOneRequiredFlag])
}

type hiddenRecord struct {
	Secret string `flag:"" hidden:"true" default:"x"`
}

func TestBindHiddenOption(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	_, err := Bind[hiddenRecord](cmd)
	require.NoError(t, err)
	assert.True(t, cmd.Flags().Lookup("secret").Hidden)
}

type appRecord struct {
	Database databaseOptions `prefix:"db"`
}

func TestBindPrefixes(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	_, err := Bind[appRecord](cmd, WithPrefix("app"))
	require.NoError(t, err)

	assert.NotNil(t, cmd.Flags().Lookup("app-db-host"))
	assert.NotNil(t, cmd.Flags().Lookup("app-db-port"))
}

func TestBindPersistent(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	_, err := Bind[BaseOptions](root, Persistent())
	require.NoError(t, err)

	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	assert.Nil(t, root.LocalNonPersistentFlags().Lookup("verbose"))
}

type duplicateInRecord struct {
	A string `flag:"name"`
	B string `flag:"name"`
}

type duplicateShortInRecord struct {
	A string `flag:"alpha,a"`
	B string `flag:"beta,a"`
}

func TestBindDuplicates(t *testing.T) {
	t.Run("within a record", func(t *testing.T) {
		_, err := Bind[duplicateInRecord](&cobra.Command{Use: "x"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
		assert.Contains(t, err.Error(), "--name is also declared by A")
	})

	t.Run("shorthand within a record", func(t *testing.T) {
		_, err := Describe[duplicateShortInRecord]()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
	})

	t.Run("existing flag", func(t *testing.T) {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().Int("port", 0, "")
		_, err := Bind[requiredPortRecord](cmd)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
		assert.Contains(t, err.Error(), `--port is already defined on command "x"`)
	})

	t.Run("existing shorthand", func(t *testing.T) {
		cmd := &cobra.Command{Use: "x"}
		cmd.Flags().BoolP("very", "v", false, "")
		_, err := Bind[BaseOptions](cmd)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
	})

	t.Run("inherited persistent flag", func(t *testing.T) {
		root := &cobra.Command{Use: "root"}
		root.PersistentFlags().Int("port", 0, "")
		child := &cobra.Command{Use: "child"}
		root.AddCommand(child)

		_, err := Bind[requiredPortRecord](child)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
	})

	t.Run("same record twice", func(t *testing.T) {
		cmd := &cobra.Command{Use: "x"}
		_, err := Bind[greetRecord](cmd)
		require.NoError(t, err)
		_, err = Bind[greetRecord](cmd)
		assert.True(t, errors.Is(err, ErrDuplicateParam))
	})
}

type badDefaultRecord struct {
	Count int `flag:"" default:"abc"`
}

type overflowDefaultRecord struct {
	Small int8 `flag:"" default:"300"`
}

type badChoiceDefaultRecord struct {
	Format string `flag:"" choices:"text|json" default:"xml"`
}

type badArgNargs struct {
	Name string `arg:"" nargs:"2"`
}

type badSliceNargs struct {
	Files []string `arg:"" nargs:"1"`
}

type badFixedDefault struct {
	Point []int `arg:"" nargs:"2" default:"1,2,3"`
}

func TestBindDeclarationErrors(t *testing.T) {
	testCases := []struct {
		name string
		bind func() error
		want error
	}{
		{"not a struct", func() error { _, err := Bind[int](nil); return err }, ErrNotStruct},
		{"unparsable default", func() error { _, err := Describe[badDefaultRecord](); return err }, ErrInvalidDefault},
		{"default out of range", func() error { _, err := Describe[overflowDefaultRecord](); return err }, ErrInvalidDefault},
		{"default not a choice", func() error { _, err := Describe[badChoiceDefaultRecord](); return err }, ErrInvalidDefault},
		{"nargs on scalar", func() error { _, err := Describe[badArgNargs](); return err }, ErrInvalidTag},
		{"nargs 1 on slice", func() error { _, err := Describe[badSliceNargs](); return err }, ErrInvalidTag},
		{"default arity", func() error { _, err := Describe[badFixedDefault](); return err }, ErrInvalidDefault},
		{"wrong prototype", func() error { _, err := Describe[greetRecord](WithDefaults(42)); return err }, ErrInvalidDefault},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.bind()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.False(t, IsUsageError(err))
			assert.True(t, IsDeclarationError(err))
		})
	}
}

func TestMustBindPanics(t *testing.T) {
	assert.Panics(t, func() { MustBind[badDefaultRecord](nil) })
	assert.NotPanics(t, func() { MustBind[greetRecord](nil) })
}

func TestDescribe(t *testing.T) {
	infos, err := Describe[greetRecord]()
	require.NoError(t, err)
	require.Len(t, infos, 6)

	assert.Equal(t, ParamInfo{
		Kind:     "argument",
		Name:     "NAME",
		Field:    "Name",
		Type:     "string",
		Required: true,
		Nargs:    1,
		Help:     "Who to greet",
	}, infos[0])

	assert.Equal(t, ParamInfo{
		Kind:    "option",
		Name:    "--greeting",
		Short:   "g",
		Field:   "Greeting",
		Type:    "string",
		Default: "Hello",
		Help:    "Greeting to use",
	}, infos[1])

	assert.Equal(t, ParamInfo{
		Kind:     "option",
		Name:     "--tag",
		Field:    "Tags",
		Type:     "string",
		Multiple: true,
	}, infos[4])

	assert.Equal(t, "duration", infos[5].Type)
	assert.False(t, infos[5].Required)
}

func TestBindLogsRegistrations(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LevelDebug,
		Format: "json",
		Output: &buf,
	})

	_, err := Bind[greetRecord](&cobra.Command{Use: "greet"}, WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"registered option"`)
	assert.Contains(t, out, `"flag":"greeting"`)
	assert.Contains(t, out, `"component":"structcli"`)
	assert.Contains(t, out, `"record":"greetRecord"`)
}

func TestBindingReset(t *testing.T) {
	cmd := &cobra.Command{Use: "serve"}
	b := MustBind[serverRecord](cmd)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9000"}))
	rec, _, err := b.Build(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, 9000, rec.Port)

	b.Reset()
	assert.False(t, cmd.Flags().Lookup("port").Changed)
	assert.Equal(t, "8080", cmd.Flags().Lookup("port").Value.String())

	rec, _, err = b.Build(cmd, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, rec.Port)
}
