package redisbridge

import "strconv"

// Redis key and channel names, following the teacher's flat
// KeyXxx-constant convention (pkg/service/constants.go) rather than a
// config-driven namespace.
const (
	KeyAttributes = "isa100:attributes"
	KeyProperties = "isa100:properties"

	ChannelAttributes = "isa100:attributes"
	ChannelProperties = "isa100:properties"

	// ListCommands is the outbound command queue drained by WatchCommands,
	// mirroring the teacher's KeyBLECommandList/WatchRedisCommands shape.
	ListCommands = "isa100:commands"
)

// attribute field names within the KeyAttributes hash.
func analogField(id byte) string {
	return "analog:" + strconv.Itoa(int(id))
}

func digitalField(id byte) string {
	return "digital:" + strconv.Itoa(int(id))
}
