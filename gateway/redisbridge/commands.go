package redisbridge

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/fieldlink/isa100gw/uap"
)

// command is one parsed line off ListCommands. op names mirror the
// Dispatcher methods they drive.
type command struct {
	op    string
	id    byte
	value uint32
}

// parseCommand decodes a "op:id:value" string, the same colon-delimited
// shape the teacher uses for its own Redis list commands, generalized with
// an explicit id/value pair since this domain's writes are attribute-keyed
// rather than fixed one-per-command.
func parseCommand(line string) (command, error) {
	parts := strings.Split(line, ":")
	cmd := command{op: parts[0]}

	switch cmd.op {
	case "write-analog", "write-digital":
		if len(parts) != 3 {
			return command{}, fmt.Errorf("redisbridge: %s wants id:value, got %q", cmd.op, line)
		}
		id, err := strconv.ParseUint(parts[1], 10, 8)
		if err != nil {
			return command{}, fmt.Errorf("redisbridge: bad attribute id in %q: %w", line, err)
		}
		value, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return command{}, fmt.Errorf("redisbridge: bad value in %q: %w", line, err)
		}
		cmd.id = byte(id)
		cmd.value = uint32(value)
	case "get-hw-platform", "get-fw-version", "get-max-buffer", "get-max-spi-speed":
		if len(parts) != 1 {
			return command{}, fmt.Errorf("redisbridge: %s takes no arguments, got %q", cmd.op, line)
		}
	default:
		return command{}, fmt.Errorf("redisbridge: unknown command %q", line)
	}

	return cmd, nil
}

// WatchCommands blocks on ListCommands and applies every command it pops to
// dispatcher until Stop is called, mirroring the teacher's
// WatchRedisCommands loop shape (select on stopCh, BRPOP with retry-after-
// error backoff).
func (b *Bridge) WatchCommands(dispatcher *uap.Dispatcher) {
	for {
		select {
		case <-b.stopCh:
			return
		default:
		}

		line, ok, err := b.brpop(time.Second, ListCommands)
		if err != nil {
			log.Printf("redisbridge: BRPOP %s: %v", ListCommands, err)
			time.Sleep(time.Second)
			continue
		}
		if !ok {
			continue
		}

		cmd, err := parseCommand(line)
		if err != nil {
			log.Printf("redisbridge: %v", err)
			continue
		}

		applyCommand(dispatcher, cmd)
	}
}

func applyCommand(dispatcher *uap.Dispatcher, cmd command) {
	switch cmd.op {
	case "write-analog":
		dispatcher.WriteAnalog(cmd.id, cmd.value)
	case "write-digital":
		dispatcher.WriteDigital(cmd.id, cmd.value != 0)
	case "get-hw-platform":
		dispatcher.GetHardwarePlatform()
	case "get-fw-version":
		dispatcher.GetFirmwareVersion()
	case "get-max-buffer":
		dispatcher.GetMaxBufferSize()
	case "get-max-spi-speed":
		dispatcher.GetMaxSPISpeed()
	}
}
