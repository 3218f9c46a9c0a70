package config_test

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/p2d/internal/config"
	"github.com/stretchr/testify/require"
)

func mustYAML(t *testing.T, doc string) any {
	t.Helper()
	v, err := config.DecodeYAML([]byte(doc))
	require.NoError(t, err)
	return v
}

func mustMapping(t *testing.T, doc string) config.Mapping {
	t.Helper()
	m, ok := mustYAML(t, doc).(config.Mapping)
	require.True(t, ok, "document is not a mapping")
	return m
}

func requireConfigError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var cerr *config.ConfigError
	require.True(t, errors.As(err, &cerr), "expected ConfigError, got %T: %v", err, err)
}

const casewcmp = `
md5sum: b70e0031f1596501f33844ef512bd35e
validator_flags: case_sensitive space_change_sensitive
`

func TestChecker_Create(t *testing.T) {
	c, err := config.NewChecker("casewcmp", mustMapping(t, casewcmp))
	require.NoError(t, err)
	require.Equal(t, "b70e0031f1596501f33844ef512bd35e", c.Fingerprint)
	require.NotNil(t, c.ValidatorFlags)
	require.Equal(t, "case_sensitive space_change_sensitive", *c.ValidatorFlags)
}

func TestChecker_Update(t *testing.T) {
	c, err := config.NewChecker("casewcmp", mustMapping(t, casewcmp))
	require.NoError(t, err)

	requireConfigError(t, c.Update(mustMapping(t, "md5sum: b70e")))

	require.NoError(t, c.Update(mustMapping(t, `md5sum: "00000000000000000000000000000000"`)))
	require.Equal(t, "00000000000000000000000000000000", c.Fingerprint)

	require.NoError(t, c.Update(mustMapping(t, "validator_flags: space_change_sensitive")))
	require.Equal(t, "space_change_sensitive", *c.ValidatorFlags)
	require.Equal(t, "00000000000000000000000000000000", c.Fingerprint)
}

func TestChecker_UpdateOptionalKeepsMandatory(t *testing.T) {
	c, err := config.NewChecker("id", mustMapping(t, "md5sum: 9b39f964848064045988688880149e7c"))
	require.NoError(t, err)
	require.Nil(t, c.ValidatorFlags)

	flags := "case_sensitive"
	require.NoError(t, c.Apply(config.CheckerSpec{ValidatorFlags: &flags}))
	require.Equal(t, "9b39f964848064045988688880149e7c", c.Fingerprint)
	require.Equal(t, "case_sensitive", *c.ValidatorFlags)
}

func TestChecker_PartialUpdateOnFailure(t *testing.T) {
	c, err := config.NewChecker("id", mustMapping(t, "md5sum: 9b39f964848064045988688880149e7c"))
	require.NoError(t, err)

	err = c.Update(mustMapping(t, `
validator_flags: case_sensitive
md5sum: 42
`))
	requireConfigError(t, err)
	require.Equal(t, "case_sensitive", *c.ValidatorFlags)
	require.Equal(t, "9b39f964848064045988688880149e7c", c.Fingerprint)
}

func TestChecker_InvalidName(t *testing.T) {
	_, err := config.NewChecker("åäö", mustMapping(t, casewcmp))
	requireConfigError(t, err)
	_, err = config.NewChecker("", mustMapping(t, casewcmp))
	requireConfigError(t, err)
	_, err = config.NewChecker("-+-", mustMapping(t, casewcmp))
	requireConfigError(t, err)
}

func TestChecker_InvalidFields(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing md5", "validator_flags: case_sensitive"},
		{"md5 list", "md5sum: [A List]"},
		{"md5 not hex", "md5sum: zz0e0031f1596501f33844ef512bd35e"},
		{"flags list", "md5sum: b70e0031f1596501f33844ef512bd35e\nvalidator_flags: [case_sensitive]"},
		{"unknown key", "md5sum: b70e0031f1596501f33844ef512bd35e\nsha1: abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewChecker("id", mustMapping(t, tt.doc))
			requireConfigError(t, err)
		})
	}
}

func TestChecker_WithoutValidatorFlags(t *testing.T) {
	_, err := config.NewChecker("id", mustMapping(t, "md5sum: b70e0031f1596501f33844ef512bd35e"))
	require.NoError(t, err)
}

func TestCheckers_Empty(t *testing.T) {
	cs := config.NewCheckers()
	require.NoError(t, cs.Update(mustYAML(t, "{}")))
	require.Zero(t, cs.Len())

	src := filepath.Join(t.TempDir(), "src1.zoo")
	require.NoError(t, os.WriteFile(src, []byte("zoo\n"), 0644))
	name, found, err := cs.Detect(src)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, name)
}

func TestCheckers_DuplicateMd5(t *testing.T) {
	docs := []string{`
src1: {md5sum: 9b39f964848064045988688880149e7c}
src2: {md5sum: 5d99b2d2051125a62f2086c9dcb2c558}
src3: {md5sum: 9b39f964848064045988688880149e7c}
`, `
src3: {md5sum: 9b39f964848064045988688880149e7c}
src1: {md5sum: 9b39f964848064045988688880149e7c}
`}
	for _, doc := range docs {
		cs := config.NewCheckers()
		requireConfigError(t, cs.Update(mustYAML(t, doc)))
	}
}

func TestCheckers_DuplicateAcrossUpdates(t *testing.T) {
	cs := config.NewCheckers()
	require.NoError(t, cs.Update(mustYAML(t, "src1: {md5sum: 9b39f964848064045988688880149e7c}")))
	requireConfigError(t, cs.Update(mustYAML(t, "src2: {md5sum: 9B39F964848064045988688880149E7C}")))
}

func TestCheckers_InvalidFormat(t *testing.T) {
	cs := config.NewCheckers()
	requireConfigError(t, cs.Update(mustYAML(t, "src1: 9b39f964848064045988688880149e7c")))
	requireConfigError(t, cs.Update(mustYAML(t, `
- src1: 9b39f964848064045988688880149e7c
- src2: 5d99b2d2051125a62f2086c9dcb2c558
`)))
	requireConfigError(t, cs.Update(nil))
	requireConfigError(t, cs.Update(mustYAML(t, "12: {md5sum: 9b39f964848064045988688880149e7c}")))
}

func TestCheckers_MergeKeepsOrder(t *testing.T) {
	cs := config.NewCheckers()
	require.NoError(t, cs.Update(mustYAML(t, `
wcmp: {md5sum: 9b39f964848064045988688880149e7c}
lcmp: {md5sum: 5d99b2d2051125a62f2086c9dcb2c558}
`)))
	require.NoError(t, cs.Update(mustYAML(t, `
lcmp: {validator_flags: space_change_sensitive}
ncmp: {md5sum: 78e6620c1bd5cca6d818ba60310a4d8c}
`)))
	require.Equal(t, []string{"wcmp", "lcmp", "ncmp"}, cs.Names())

	lcmp, ok := cs.Get("lcmp")
	require.True(t, ok)
	require.Equal(t, "5d99b2d2051125a62f2086c9dcb2c558", lcmp.Fingerprint)
	require.Equal(t, "space_change_sensitive", *lcmp.ValidatorFlags)
}

func TestCheckers_Detect(t *testing.T) {
	dir := t.TempDir()
	src1 := filepath.Join(dir, "src1.cpp")
	src2 := filepath.Join(dir, "src2.cpp")
	require.NoError(t, os.WriteFile(src1, []byte("int main() { return 0; }\n"), 0644))
	require.NoError(t, os.WriteFile(src2, []byte("int main() { return 1; }\n"), 0644))

	sum := md5.Sum([]byte("int main() { return 0; }\n"))
	cs := config.NewCheckers()
	require.NoError(t, cs.Update(config.Mapping{
		{Key: "src1", Value: config.Mapping{{Key: "md5sum", Value: hex.EncodeToString(sum[:])}}},
	}))

	name, found, err := cs.Detect(src1)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "src1", name)

	name, found, err = cs.Detect(src2)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, name)

	_, _, err = cs.Detect(filepath.Join(dir, "missing.cpp"))
	require.Error(t, err)
}
