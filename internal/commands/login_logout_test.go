package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"tdui/internal/commands"
	"tdui/internal/config"
	"tdui/internal/exitcode"
)

func readToken(t *testing.T, path string) oauth2.Token {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read token: %v", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		t.Fatalf("failed to decode token: %v", err)
	}
	return tok
}

// TestLoginCommand_TodoistPrompt verifies the pasted token is saved.
func TestLoginCommand_TodoistPrompt(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("  abc123  \n"))

	dir := filepath.Join(t.TempDir(), "tdui")
	cfg := &config.Config{Dir: dir, Backend: config.BackendTodoist}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), "Todoist API token") {
		t.Errorf("expected a prompt on stderr, got %q", errBuf.String())
	}

	tok := readToken(t, cfg.TokenPath())
	if tok.AccessToken != "abc123" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}
}

// TestLoginCommand_TodoistTokenFlag verifies --token skips the prompt and
// replaces an existing token.
func TestLoginCommand_TodoistTokenFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Dir: dir, Backend: config.BackendTodoist, Quiet: true}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"old"}`), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.LoginCmd{}
	fs := newFlagSet(cmd)
	if err := fs.Parse([]string{"--token", "fresh"}); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "" || errBuf.String() != "" {
		t.Errorf("expected no output in quiet mode, got %q / %q", outBuf.String(), errBuf.String())
	}
	if tok := readToken(t, cfg.TokenPath()); tok.AccessToken != "fresh" {
		t.Errorf("expected token 'fresh', got %q", tok.AccessToken)
	}
}

// TestLoginCommand_TodoistAlreadyLoggedIn verifies an existing token is kept.
func TestLoginCommand_TodoistAlreadyLoggedIn(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendTodoist}
	if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"kept"}`), 0600); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("ignored\n"))

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if outBuf.String() != "already logged in\n" {
		t.Errorf("expected 'already logged in\\n', got %q", outBuf.String())
	}
	if tok := readToken(t, cfg.TokenPath()); tok.AccessToken != "kept" {
		t.Errorf("token was overwritten: %q", tok.AccessToken)
	}
}

// TestLoginCommand_TodoistEmptyToken verifies an empty paste is refused.
func TestLoginCommand_TodoistEmptyToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendTodoist}

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("\n"))

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasSuffix(errBuf.String(), "error: token required\n") {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token.json should not have been written")
	}
}

// TestLoginCommand_NoOAuthClient verifies Google login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:     t.TempDir(),
		Backend: config.BackendGoogleTasks,
	}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.Contains(errBuf.String(), "oauth_client.json not found") {
		t.Errorf("expected message about missing oauth_client.json, got %q", errBuf.String())
	}
}

// TestLoginCommand_NoRefreshToken verifies Google login proceeds when the
// stored token cannot be refreshed.
func TestLoginCommand_NoRefreshToken(t *testing.T) {
	cmd := &commands.LoginCmd{}

	tmpDir := t.TempDir()

	oauthClient := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(filepath.Join(tmpDir, "oauth_client.json"), []byte(oauthClient), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
	tokenWithoutRefresh := `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "token.json"), []byte(tokenWithoutRefresh), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{
		Dir:     tmpDir,
		Backend: config.BackendGoogleTasks,
	}

	// Cancelled up front so the flow stops at the callback wait.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := cmd.Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

	if outBuf.String() == "already logged in\n" {
		t.Error("should not say 'already logged in' with token missing refresh_token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cmd := &commands.LogoutCmd{}

	tmpDir := t.TempDir()

	oauthPath := filepath.Join(tmpDir, "oauth_client.json")
	if err := os.WriteFile(oauthPath, []byte(`{"installed":{"client_id":"test","client_secret":"test"}}`), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
	tokenPath := filepath.Join(tmpDir, "token.json")
	if err := os.WriteFile(tokenPath, []byte(`{"access_token":"test","refresh_token":"test"}`), 0600); err != nil {
		t.Fatalf("failed to write token.json: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: tmpDir, Backend: config.BackendGoogleTasks}

	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_EnvTokenIsKept verifies logout removes the saved token
// but leaves TODOIST_API_TOKEN alone and says so.
func TestLogoutCommand_EnvTokenIsKept(t *testing.T) {
	t.Setenv(config.TodoistTokenEnv, "from-env")

	for _, saved := range []bool{false, true} {
		cmd := &commands.LogoutCmd{}
		cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendTodoist}
		if saved {
			if err := os.WriteFile(cfg.TokenPath(), []byte(`{"access_token":"x"}`), 0600); err != nil {
				t.Fatal(err)
			}
		}

		var outBuf, errBuf bytes.Buffer
		code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

		if code != exitcode.Success {
			t.Errorf("saved=%v: expected exit code %d, got %d", saved, exitcode.Success, code)
		}
		want := "not logged in\n"
		if saved {
			want = "ok\n"
		}
		if outBuf.String() != want {
			t.Errorf("saved=%v: expected %q, got %q", saved, want, outBuf.String())
		}
		if want := "note: TODOIST_API_TOKEN is still set; unset it to sign out\n"; errBuf.String() != want {
			t.Errorf("saved=%v: expected %q, got %q", saved, want, errBuf.String())
		}
		if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
			t.Errorf("saved=%v: token.json should be gone", saved)
		}
		if os.Getenv(config.TodoistTokenEnv) != "from-env" {
			t.Error("environment token should be untouched")
		}
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	t.Setenv(config.TodoistTokenEnv, "")

	for _, quiet := range []bool{false, true} {
		cmd := &commands.LogoutCmd{}

		var outBuf, errBuf bytes.Buffer
		cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendTodoist, Quiet: quiet}

		code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

		if code != exitcode.Success {
			t.Errorf("quiet=%v: expected exit code %d, got %d", quiet, exitcode.Success, code)
		}
		if errBuf.String() != "" {
			t.Errorf("quiet=%v: expected no stderr, got %q", quiet, errBuf.String())
		}
		want := "not logged in\n"
		if quiet {
			want = ""
		}
		if outBuf.String() != want {
			t.Errorf("quiet=%v: expected %q, got %q", quiet, want, outBuf.String())
		}
	}
}
