// Command scadaprint is a diagnostic console that watches the attribute
// values a gateway publishes to Redis and prints a running min/max/average
// per analog attribute, the same kind of standing "print everything we see"
// utility as spirilis-smacbase's cmd/smacprint.
package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	"github.com/fieldlink/isa100gw/scada"
	"github.com/fieldlink/isa100gw/uap"
)

var (
	redisAddr = pflag.String("redis-addr", "localhost:6379", "Redis server address")
	redisPass = pflag.String("redis-pass", "", "Redis password")
	redisDB   = pflag.Int("redis-db", 0, "Redis database number")
)

const attributesHash = "isa100:attributes"
const attributesChannel = "isa100:attributes"

func main() {
	pflag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr:     *redisAddr,
		Password: *redisPass,
		DB:       *redisDB,
	})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "scadaprint: connect to redis: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	registers := make(map[string]*scada.Register)
	for i := 1; i <= uap.AnalogCount; i++ {
		registers["analog:"+strconv.Itoa(i)] = scada.NewRegister()
	}

	pubsub := client.Subscribe(ctx, attributesChannel)
	defer pubsub.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ch := pubsub.Channel()
	fmt.Println("scadaprint: watching", attributesChannel)
	for {
		select {
		case <-sigCh:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			field := msg.Payload
			if !strings.HasPrefix(field, "analog:") {
				continue
			}
			register, tracked := registers[field]
			if !tracked {
				continue
			}

			encoded, err := client.HGet(ctx, attributesHash, field).Bytes()
			if err != nil {
				fmt.Fprintf(os.Stderr, "scadaprint: HGET %s: %v\n", field, err)
				continue
			}

			var wireBytes [4]byte
			if err := cbor.Unmarshal(encoded, &wireBytes); err != nil {
				fmt.Fprintf(os.Stderr, "scadaprint: decode %s: %v\n", field, err)
				continue
			}

			value := math.Float32frombits(binary.LittleEndian.Uint32(wireBytes[:]))
			register.AddValue(float64(value))

			fmt.Printf("%-12s value=%-12g avg=%-12g min=%-12g max=%-12g n=%d\n",
				field, value, register.Average, register.Minimum, register.Maximum, register.Total)
		}
	}
}
