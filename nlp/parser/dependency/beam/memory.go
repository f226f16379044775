package beam

import (
	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryProbe reports the memory still available to the process, in bytes.
type MemoryProbe interface {
	FreeMemory() (uint64, error)
}

// SystemMemory reads the available memory of the host.
type SystemMemory struct{}

func (SystemMemory) FreeMemory() (uint64, error) {
	stat, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return stat.Available, nil
}
