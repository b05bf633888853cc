package game

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyJoined    = errors.New("already joined")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrHostCannotLeave  = errors.New("host cannot leave their own game")
	ErrGameNotOpen      = errors.New("game is not open")
	ErrConflict         = errors.New("concurrent update")
	ErrInvalid          = errors.New("invalid input")
	ErrDispatchFailed   = errors.New("reminder dispatch failed")
	ErrAlreadyRunning   = errors.New("reminder dispatch already running")
)
