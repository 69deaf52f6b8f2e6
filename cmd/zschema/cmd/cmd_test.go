package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, env []string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{
		logger:  zaptest.NewLogger(t),
		environ: func() []string { return env },
	}
	code := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut, a)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestList(t *testing.T) {
	r := runCLI(t, "", nil, "list")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Register")
	assert.Contains(t, r.stdout, "ProductFilter")

	r = runCLI(t, "", nil, "list", "--domain", "auth")
	require.Equal(t, ExitOK, r.code)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ChangePassword"))

	r = runCLI(t, "", nil, "list", "--domain", "billing")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, `no schemas in domain "billing"`)
}

func TestValidate_Accepted(t *testing.T) {
	file := writeFile(t, "todo.json", `{"title":"write tests"}`)
	r := runCLI(t, "", nil, "validate", "Todo", file)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "✓ "+file)
	assert.Contains(t, r.stdout, `"priority": "MEDIUM"`)
	assert.Contains(t, r.stdout, "1 valid, 0 invalid")
}

func TestValidate_RejectedRefinement(t *testing.T) {
	body := `{"email":"a@b.co","password":"abcdefgh","confirmPassword":"different","name":"Lee"}`

	r := runCLI(t, body, nil, "validate", "Register")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, "✗ -")
	assert.Contains(t, r.stdout, "confirmPassword: Passwords do not match")

	r = runCLI(t, body, nil, "validate", "Register", "-", "--locale", "ko")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, "confirmPassword: 비밀번호가 일치하지 않습니다")
}

func TestValidate_YAML(t *testing.T) {
	file := writeFile(t, "product.yaml", "name: Lamp\nprice: 25\ncategory: TOY\n")
	r := runCLI(t, "", nil, "validate", "Product", file, "--locale", "ko")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, "category: ELECTRONICS, CLOTHING, BOOKS, FOOD, OTHER 중 하나여야 합니다")

	r = runCLI(t, "name: Lamp\nprice: 25\n", nil, "validate", "Product", "--input", "yaml")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"inStock": true`)
}

func TestValidate_JSONOutputKeepsOrder(t *testing.T) {
	good := writeFile(t, "good.json", `{"currentPassword":"a","newPassword":"abcdefgh","confirmNewPassword":"abcdefgh"}`)
	bad := writeFile(t, "bad.json", `{"currentPassword":"","newPassword":"short"}`)
	root := writeFile(t, "root.json", `[1,2,3]`)

	r := runCLI(t, "", nil, "validate", "ChangePassword", bad, good, root, "-o", "json", "-j", "2")
	assert.Equal(t, ExitRejected, r.code, r.stderr)

	var got []struct {
		File   string         `json:"file"`
		OK     bool           `json:"ok"`
		Value  map[string]any `json:"value"`
		Errors []struct {
			Path    []string `json:"path"`
			Message string   `json:"message"`
			Rule    string   `json:"rule"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got))
	require.Len(t, got, 3)

	assert.Equal(t, bad, got[0].File)
	assert.False(t, got[0].OK)
	require.Len(t, got[0].Errors, 3)
	assert.Equal(t, []string{"currentPassword"}, got[0].Errors[0].Path)
	assert.Equal(t, "Current password is required", got[0].Errors[0].Message)
	assert.Equal(t, "required", got[0].Errors[2].Rule)

	assert.Equal(t, good, got[1].File)
	assert.True(t, got[1].OK)
	assert.Equal(t, "abcdefgh", got[1].Value["newPassword"])

	assert.Empty(t, got[2].Errors[0].Path)
	assert.Equal(t, "type", got[2].Errors[0].Rule)
}

func TestValidate_Strict(t *testing.T) {
	r := runCLI(t, `{"email":"a@b.co","admin":true}`, nil, "validate", "ResetPassword", "--strict")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, `admin: Unrecognized key "admin"`)

	r = runCLI(t, `{"email":"a@b.co","admin":true}`, nil, "validate", "ResetPassword")
	assert.Equal(t, ExitOK, r.code)
	assert.NotContains(t, r.stdout, "admin")
}

func TestValidate_Errors(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown schema", []string{"validate", "Invoice"}, `unknown schema "Invoice"`},
		{"unknown locale", []string{"validate", "Todo", "--locale", "fr"}, `unsupported locale "fr"`},
		{"missing file", []string{"validate", "Todo", filepath.Join(t.TempDir(), "nope.json")}, "read "},
		{"stdin twice", []string{"validate", "Todo", "-", "-"}, "standard input can only be read once"},
		{"bad output", []string{"validate", "Todo", "-o", "xml"}, `unknown output format "xml"`},
		{"bad input", []string{"validate", "Todo", "--input", "csv"}, `unknown input format "csv"`},
		{"no schema", []string{"validate"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := runCLI(t, "{}", nil, tt.args...)
			assert.Equal(t, ExitError, r.code)
			assert.Contains(t, r.stderr, tt.want)
		})
	}

	r := runCLI(t, "{not json", nil, "validate", "Todo")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "parse error")
}

func TestExport(t *testing.T) {
	r := runCLI(t, "", nil, "export", "Product", "--strict")
	require.Equal(t, ExitOK, r.code, r.stderr)

	var js map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &js))
	assert.Equal(t, "Product", js["title"])
	assert.Equal(t, false, js["additionalProperties"])
	assert.ElementsMatch(t, []any{"name", "price"}, js["required"])

	r = runCLI(t, "", nil, "export", "Nope")
	assert.Equal(t, ExitError, r.code)
}

func TestEnv(t *testing.T) {
	r := runCLI(t, "", []string{"DATABASE_URL=postgres://app:s3cret@db:5432/app", "APP_ENV=production"}, "env")
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "production")
	assert.Contains(t, r.stdout, "postgres://app:xxxxx@db:5432/app")
	assert.NotContains(t, r.stdout, "s3cret")
	assert.Contains(t, r.stdout, "(unset)")

	r = runCLI(t, "", []string{"APP_ENV=staging"}, "env")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, "APP_ENV")
	assert.Contains(t, r.stdout, "DATABASE_URL: Required")

	r = runCLI(t, "", []string{"DATABASE_URL=not a url"}, "env", "--locale", "ko")
	assert.Equal(t, ExitRejected, r.code)
	assert.Contains(t, r.stdout, "DATABASE_URL: 올바른 URL 형식이 아닙니다")

	r = runCLI(t, "", nil, "env", "--locale", "fr")
	assert.Equal(t, ExitError, r.code)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		env     []string
		file    string
		verbose bool
		want    zapcore.Level
	}{
		{"default", nil, "", false, zapcore.InfoLevel},
		{"environment", []string{"LOG_LEVEL=warn"}, "", false, zapcore.WarnLevel},
		{"config file", nil, "log_level = \"error\"\n", false, zapcore.ErrorLevel},
		{"verbose wins", []string{"LOG_LEVEL=error"}, "", true, zapcore.DebugLevel},
		{"invalid falls back", []string{"LOG_LEVEL=loud"}, "", false, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &app{verbose: tt.verbose, environ: func() []string { return tt.env }}
			if tt.file != "" {
				a.cfgFile = writeFile(t, "app.toml", tt.file)
			}
			assert.Equal(t, tt.want, a.logLevel())
		})
	}
}

func TestEnv_ConfigFile(t *testing.T) {
	file := writeFile(t, "app.toml", "database_url = \"mysql://localhost/app\"\nlog_level = \"debug\"\n")
	r := runCLI(t, "", nil, "env", "--config", file)
	require.Equal(t, ExitOK, r.code, r.stderr)
	assert.Contains(t, r.stdout, "mysql://localhost/app")
	assert.Contains(t, r.stdout, "debug")
}

func TestVersion(t *testing.T) {
	r := runCLI(t, "", nil, "version")
	require.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.stdout, "zschema v"+Version)
}
