package gpio

import "time"

func sleep2ms() { time.Sleep(2 * time.Millisecond) }
func sleep11s() { time.Sleep(11 * time.Second) }
