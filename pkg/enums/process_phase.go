package enums

import "fmt"

// ProcessPhase maps to the process_phase enum in Postgres.
type ProcessPhase string

const (
	ProcessPhaseStarted    ProcessPhase = "iniciado"
	ProcessPhaseInProgress ProcessPhase = "en_progreso"
	ProcessPhaseCompleted  ProcessPhase = "completado"
	ProcessPhaseOnHold     ProcessPhase = "en_espera"
	ProcessPhaseCanceled   ProcessPhase = "cancelado"
)

var validProcessPhases = []ProcessPhase{
	ProcessPhaseStarted,
	ProcessPhaseInProgress,
	ProcessPhaseCompleted,
	ProcessPhaseOnHold,
	ProcessPhaseCanceled,
}

func (p ProcessPhase) String() string {
	return string(p)
}

// IsValid checks whether the given value matches the canonical enum.
func (p ProcessPhase) IsValid() bool {
	for _, candidate := range validProcessPhases {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProcessPhase converts raw input into a ProcessPhase.
func ParseProcessPhase(value string) (ProcessPhase, error) {
	for _, candidate := range validProcessPhases {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid process phase %q", value)
}

// IsTerminal reports whether the phase closes the repair job.
func (p ProcessPhase) IsTerminal() bool {
	return p == ProcessPhaseCompleted || p == ProcessPhaseCanceled
}
