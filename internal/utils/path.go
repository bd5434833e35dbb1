package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// PathResolver finds where an application keeps its per-user files.
type PathResolver struct {
	app            string
	executablePath string
	executableDir  string
	homeDir        string
}

// NewPathResolver creates a resolver for the application named app.
// Missing home or executable information only narrows the candidates.
func NewPathResolver(app string) *PathResolver {
	pr := &PathResolver{app: app}

	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		pr.executablePath = execPath
		pr.executableDir = filepath.Dir(execPath)
	} else {
		log.Debugf("Could not determine executable path: %v", err)
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		pr.homeDir = homeDir
	} else {
		log.Warnf("Could not determine home directory: %v", err)
	}
	return pr
}

// ConfigCandidates lists config directories in order of preference:
// 1. $XDG_CONFIG_HOME/<app> or ~/.config/<app>
// 2. %APPDATA%/<app> on windows, ~/Library/Application Support/<app> on macOS
// 3. the executable's directory
func (pr *PathResolver) ConfigCandidates() []string {
	var dirs []string
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		dirs = append(dirs, filepath.Join(configHome, pr.app))
	}
	if pr.homeDir != "" {
		dirs = append(dirs, filepath.Join(pr.homeDir, ".config", pr.app))
	}
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			dirs = append(dirs, filepath.Join(appData, pr.app))
		}
	case "darwin":
		if pr.homeDir != "" {
			dirs = append(dirs, filepath.Join(pr.homeDir, "Library", "Application Support", pr.app))
		}
	}
	if pr.executableDir != "" {
		dirs = append(dirs, pr.executableDir)
	}
	return dirs
}

// ConfigDir returns the first writable candidate directory.
func (pr *PathResolver) ConfigDir() (string, error) {
	for _, dir := range pr.ConfigCandidates() {
		if result := CheckDirStatus(dir); result.Writable {
			return dir, nil
		}
		log.Debugf("Config directory candidate not writable: %s", dir)
	}
	return "", errors.New("no writable config directory")
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()

	info := map[string]string{
		"executable_path": pr.executablePath,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	if dir, err := pr.ConfigDir(); err == nil {
		info["config_dir"] = dir
	}

	for _, envVar := range []string{"XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
