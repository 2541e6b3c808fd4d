package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

var (
	manager     *ProcessManager
	managerOnce sync.Once
)

// ProcessManager records the pids of detached mcp-launch hosts, keyed by the
// absolute path of the launch descriptor they were started from.
type ProcessManager struct {
	fileMux  sync.Mutex
	filePath string
}

func GetProcessManager() (*ProcessManager, error) {
	var err error
	managerOnce.Do(func() {
		var path string
		path, err = CacheFilePath("processes.json")
		if err != nil {
			return
		}
		manager = &ProcessManager{filePath: path}
	})
	if manager == nil {
		return nil, fmt.Errorf("failed to initialize process manager: %w", err)
	}
	return manager, nil
}

type processes map[string]int

func (pm *ProcessManager) readProcesses() (processes, error) {
	bytes, err := os.ReadFile(pm.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return processes{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", pm.filePath, err)
	}

	procs := processes{}
	if err := json.Unmarshal(bytes, &procs); err != nil {
		return nil, fmt.Errorf("failed to deserialize the contents of %s: %w", pm.filePath, err)
	}

	return procs, nil
}

func (pm *ProcessManager) writeProcesses(procs processes) error {
	bytes, err := json.Marshal(procs)
	if err != nil {
		return fmt.Errorf("failed to serialize the processes map: %w", err)
	}

	return os.WriteFile(pm.filePath, bytes, 0644)
}

func (pm *ProcessManager) GetProcessId(name string) (int, error) {
	pm.fileMux.Lock()
	defer pm.fileMux.Unlock()

	procs, err := pm.readProcesses()
	if err != nil {
		return -1, fmt.Errorf("unable to find pid for mcp-launch instance: %w", err)
	}

	pid, ok := procs[name]
	if !ok {
		return -1, fmt.Errorf("no matching pid for mcp-launch instance")
	}

	return pid, nil
}

func (pm *ProcessManager) SaveProcessId(name string, pid int) error {
	pm.fileMux.Lock()
	defer pm.fileMux.Unlock()

	procs, err := pm.readProcesses()
	if err != nil {
		return fmt.Errorf("unable to save pid for mcp-launch instance: %w", err)
	}

	procs[name] = pid

	if err := pm.writeProcesses(procs); err != nil {
		return fmt.Errorf("unable to save pid for mcp-launch instance: %w", err)
	}

	return nil
}

func (pm *ProcessManager) DeleteProcessId(name string) error {
	pm.fileMux.Lock()
	defer pm.fileMux.Unlock()

	procs, err := pm.readProcesses()
	if err != nil {
		return fmt.Errorf("unable to delete pid for mcp-launch instance: %w", err)
	}

	delete(procs, name)

	if err := pm.writeProcesses(procs); err != nil {
		return fmt.Errorf("unable to delete pid for mcp-launch instance: %w", err)
	}

	return nil
}
