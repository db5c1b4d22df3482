package drivers

import (
	"sync"

	"github.com/reglet-dev/retrohost/abi"
)

const (
	sensorAccelerometer = iota
	sensorGyroscope
	sensorIlluminance
	sensorClasses
)

// MemorySensor reports host-fed sensor readings for the sensor classes a core
// has enabled.
type MemorySensor struct {
	ports uint32

	mu       sync.Mutex
	enabled  map[uint32]*[sensorClasses]bool
	rate     map[uint32]uint32
	readings map[[2]uint32]float32
}

// NewMemorySensor creates a MemorySensor accepting ports below ports.
func NewMemorySensor(ports uint32) *MemorySensor {
	return &MemorySensor{
		ports:    ports,
		enabled:  map[uint32]*[sensorClasses]bool{},
		rate:     map[uint32]uint32{},
		readings: map[[2]uint32]float32{},
	}
}

// SetSensorState enables or disables a sensor class on port.
func (s *MemorySensor) SetSensorState(port, action, rate uint32) bool {
	if port >= s.ports || action > abi.SensorIlluminanceDisable {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.enabled[port]
	if !ok {
		st = &[sensorClasses]bool{}
		s.enabled[port] = st
	}
	// Actions come in enable/disable pairs, one pair per class.
	st[action/2] = action%2 == 0
	s.rate[port] = rate
	return true
}

// SensorInput returns the reading for id, or zero while its class is off.
func (s *MemorySensor) SensorInput(port, id uint32) float32 {
	class, ok := sensorClass(id)
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.enabled[port]; st == nil || !st[class] {
		return 0
	}
	return s.readings[[2]uint32{port, id}]
}

// SetReading stores the value SensorInput reports for id on port.
func (s *MemorySensor) SetReading(port, id uint32, value float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings[[2]uint32{port, id}] = value
}

func sensorClass(id uint32) (int, bool) {
	switch {
	case id <= abi.SensorAccelerometerZ:
		return sensorAccelerometer, true
	case id <= abi.SensorGyroscopeZ:
		return sensorGyroscope, true
	case id == abi.SensorIlluminance:
		return sensorIlluminance, true
	}
	return 0, false
}
