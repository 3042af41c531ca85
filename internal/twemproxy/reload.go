package twemproxy

import (
	"errors"
	"os/exec"

	"github.com/rs/zerolog"

	"beholder/internal/shared/logger"
)

// Reload invokes the configured shell command that makes twemproxy pick up
// a rewritten configuration.
type Reload struct {
	command string
	log     zerolog.Logger
}

func NewReload(command string) *Reload {
	return &Reload{
		command: command,
		log:     logger.WithComponent("reload"),
	}
}

// Fire runs the command synchronously through the shell and returns its
// exit status, or -1 when the command could not be started. The status is
// logged and otherwise ignored: a failed reload neither retries nor stops
// the daemon.
func (t *Reload) Fire() int {
	cmd := exec.Command("sh", "-c", t.command)
	err := cmd.Run()
	status := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.log.Error().Err(err).Str("command", t.command).Msg("reload command failed to start")
			return -1
		}
		status = exitErr.ExitCode()
	}
	t.log.Info().Int("status", status).Str("command", t.command).Msg("reload command finished")
	return status
}
