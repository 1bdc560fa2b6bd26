package main

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/gdp-project/gdp"
)

// This is the main package required for building as c-shared
// It provides C-compatible wrappers for the Go GDP client implementation

func main() {} // Required for c-shared build mode

// clientEntry pairs a live client with the generation its handle was
// issued under.
type clientEntry struct {
	client     *gdp.Client
	generation uint32
}

// Global table of client instances keyed by handle ID. Handles pack
// the ID in the low 32 bits and the generation in the high 32 bits; a
// handle is valid only while both match the table.
var (
	clientInstances = make(map[uint32]*clientEntry)
	nextInstanceID  uint32 = 1
	nextGeneration  uint32 = 1
	clientMutex     sync.RWMutex
)

func packHandle(id, generation uint32) uint64 {
	return uint64(generation)<<32 | uint64(id)
}

func unpackHandle(handle uint64) (id, generation uint32) {
	return uint32(handle), uint32(handle >> 32)
}

// lookupClient resolves a handle pointer to a live client. A nil
// pointer, unknown ID or stale generation all miss.
func lookupClient(ptr unsafe.Pointer) (*gdp.Client, bool) {
	if ptr == nil {
		return nil, false
	}
	id, generation := unpackHandle(*(*uint64)(ptr))

	clientMutex.RLock()
	entry, exists := clientInstances[id]
	clientMutex.RUnlock()

	if !exists || entry.generation != generation {
		return nil, false
	}
	return entry.client, true
}

//export new_ffi
func new_ffi(libPort uint16, sidecarPort uint16) unsafe.Pointer {
	opts := gdp.NewOptions()
	opts.ListenAddr = fmt.Sprintf("127.0.0.1:%d", libPort)
	if sidecarPort != 0 {
		opts.RouterAddr = fmt.Sprintf("127.0.0.1:%d", sidecarPort)
	}

	client, err := gdp.New(opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "new_ffi",
			"lib_port": libPort,
			"error":    err.Error(),
		}).Error("Failed to create GDP client")
		return nil
	}

	// The C API has no separate connect step: a successfully bound
	// client is ready for dispatch.
	client.NotifyState(gdp.StateReady)

	clientMutex.Lock()
	id := nextInstanceID
	nextInstanceID++
	generation := nextGeneration
	nextGeneration++
	clientInstances[id] = &clientEntry{client: client, generation: generation}
	clientMutex.Unlock()

	handle := new(uint64)
	*handle = packHandle(id, generation)
	return unsafe.Pointer(handle)
}

//export send_packet_ffi
func send_packet_ffi(client unsafe.Pointer, dest unsafe.Pointer, payload unsafe.Pointer, payloadLen uintptr) int8 {
	// A bad handle is a caller contract violation, not an operational
	// outcome.
	instance, ok := lookupClient(client)
	if !ok {
		return gdp.StatusInternalError
	}

	var destSlot []byte
	if dest != nil {
		destSlot = unsafe.Slice((*byte)(dest), 32)
	}

	var payloadSlot []byte
	if payload != nil && payloadLen > 0 {
		payloadSlot = unsafe.Slice((*byte)(payload), payloadLen)
	}

	// The caller's buffers are read synchronously within this call;
	// DispatchBytes copies what it keeps, so the caller may free
	// immediately after return.
	return instance.DispatchBytes(destSlot, payloadSlot).Status()
}

//export close_ffi
func close_ffi(client unsafe.Pointer) int8 {
	if client == nil {
		return gdp.StatusInternalError
	}
	id, generation := unpackHandle(*(*uint64)(client))

	clientMutex.Lock()
	entry, exists := clientInstances[id]
	if exists && entry.generation == generation {
		delete(clientInstances, id)
	}
	clientMutex.Unlock()

	if !exists || entry.generation != generation {
		return gdp.StatusInternalError
	}
	if err := entry.client.Close(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "close_ffi",
			"error":    err.Error(),
		}).Error("Failed to close GDP client")
		return gdp.StatusInternalError
	}
	return gdp.StatusSent
}
