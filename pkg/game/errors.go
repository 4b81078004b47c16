package game

import (
	"errors"
	"fmt"
)

var (
	ErrNameTaken   = errors.New("name taken")
	ErrInvalidName = errors.New("invalid name")
)

// PlayerNotFoundError is returned when an operation targets a player that is not in the game.
type PlayerNotFoundError struct {
	PlayerID string
}

func (e *PlayerNotFoundError) Error() string {
	return fmt.Sprintf("player %s not found", e.PlayerID)
}

func IsPlayerNotFound(err error) bool {
	var notFound *PlayerNotFoundError
	return errors.As(err, &notFound)
}
