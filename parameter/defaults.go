package parameter

import "time"

// Event queue
const (
	// EventQueueSize must be a power of two
	EventQueueSize  = 256
	EventBufferMask = EventQueueSize - 1
)

// Pool
const (
	// PoolMaxSize caps live instances per ingredient kind
	PoolMaxSize = 8
)

// Timing, matching the pacing of the scene animations
const (
	LidAnimationDuration   = 1 * time.Second
	MixDuration            = 3 * time.Second
	WaitBeforeCloseLid     = 2 * time.Second
	RenewDelay             = 1 * time.Second
	MoveDuration           = 800 * time.Millisecond
	ResetContentDuration   = 1 * time.Second
	ResetTransformDuration = 500 * time.Millisecond
	CameraDuration         = 1 * time.Second
	NoticeDuration         = 2 * time.Second
	DispatchInterval       = 50 * time.Millisecond
	FrameInterval          = 33 * time.Millisecond
)

// Game
const (
	WinThreshold   = 0.85
	PlacementWidth = 0.5
	ShelfDepth     = 1.0

	// SlotFocusDistance is how far in front of the shelf the slots turn toward
	SlotFocusDistance = 1.0
)

// Audio
const (
	AudioSampleRate = 44100
	AudioVolume     = 0.4
)
