package client

import (
	"log/slog"

	"github.com/eiannone/keyboard"

	"tetrimino/tetris"
)

// keyboardInput turns key presses into actions. It implements tetris.Input.
type keyboardInput struct {
	events <-chan keyboard.KeyEvent
	logger *slog.Logger
}

// Poll drains the key presses buffered since the last call without blocking. A keyboard
// failure quits the game.
func (k *keyboardInput) Poll() []tetris.Action {
	var actions []tetris.Action
	for {
		select {
		case event, ok := <-k.events:
			if !ok {
				k.logger.Error("Keyboard events channel closed unexpectedly")
				return append(actions, tetris.Quit)
			}
			if event.Err != nil {
				k.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
				return append(actions, tetris.Quit)
			}
			if a, ok := keyAction(event); ok {
				actions = append(actions, a)
			}
		default:
			return actions
		}
	}
}

func keyAction(event keyboard.KeyEvent) (tetris.Action, bool) {
	switch {
	case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
		return tetris.MoveDown, true
	case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
		return tetris.MoveLeft, true
	case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
		return tetris.MoveRight, true
	case event.Key == keyboard.KeyArrowUp || event.Rune == 'w' || event.Rune == 'e':
		return tetris.RotateRight, true
	case event.Key == keyboard.KeySpace || event.Rune == ' ':
		return tetris.DropDown, true
	case event.Key == keyboard.KeyEsc || event.Key == keyboard.KeyCtrlC || event.Rune == 'q':
		return tetris.Quit, true
	}
	return "", false
}
