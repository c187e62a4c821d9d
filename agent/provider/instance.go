package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"
	"github.com/eapache/go-resiliency/retrier"
	"github.com/google/uuid"
)

const (
	// EndpointDirEnv tells the plugin process where to expose its endpoint
	EndpointDirEnv = "PROVIDER_ENDPOINT_DIR"

	// CapacityFile is written by the plugin inside the endpoint directory
	// once its services are ready
	CapacityFile = "capacity.json"

	endpointRootDir   = "csi"
	readinessInterval = time.Millisecond * 100
)

type InstanceOptions struct {
	WorkDir         string
	LaunchTimeout   time.Duration
	StopGracePeriod time.Duration
}

func DefaultInstanceOptions(workDir string) (o InstanceOptions) {
	o = InstanceOptions{
		WorkDir:         workDir,
		LaunchTimeout:   time.Second * 30,
		StopGracePeriod: time.Second * 5,
	}
	return
}

// Instance is one running plugin-backed resource provider. Owned
// exclusively by InstanceManager: termination always goes through Stop.
type Instance struct {
	ID          ID
	ContainerID string
	Capacity    Capacity

	endpointDir string
	cmd         *exec.Cmd
	done        chan struct{}
	waitErr     error
}

// InstanceManager maps active identities to running plugin instances.
// At most one instance may exist per identity at any instant.
type InstanceManager struct {
	*supervisor.Control
	log     *logx.Log
	options InstanceOptions

	mu        sync.Mutex
	instances map[ID]*Instance
}

func NewInstanceManager(ctx context.Context, log *logx.Log, options InstanceOptions) (m *InstanceManager) {
	m = &InstanceManager{
		Control:   supervisor.NewControl(ctx),
		log:       log.GetLog("provider", "instance"),
		options:   options,
		instances: map[ID]*Instance{},
	}
	return
}

func (m *InstanceManager) Open() (err error) {
	if err = os.MkdirAll(m.EndpointRoot(), 0755); err != nil {
		return
	}
	err = m.Control.Open()
	m.log.Infof("open: work dir %s", m.options.WorkDir)
	return
}

// Close stops all running instances before releasing the component
func (m *InstanceManager) Close() (err error) {
	for _, id := range m.Active() {
		if stopErr := m.Stop(id); stopErr != nil {
			m.log.Error(stopErr)
		}
	}
	err = m.Control.Close()
	return
}

func (m *InstanceManager) EndpointRoot() (res string) {
	res = filepath.Join(m.options.WorkDir, endpointRootDir)
	return
}

func (m *InstanceManager) EndpointDir(id ID) (res string) {
	res = filepath.Join(m.EndpointRoot(), id.Type, id.Name)
	return
}

// Active returns identities with a running instance
func (m *InstanceManager) Active() (res []ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.instances {
		res = append(res, id)
	}
	return
}

// CurrentResources returns the capacity snapshot captured at launch
func (m *InstanceManager) CurrentResources(id ID) (capacity Capacity, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	instance, ok := m.instances[id]
	if ok {
		capacity = instance.Capacity.Clone()
	}
	return
}

// Start launches the plugin process for config, waits for its services to
// report ready and captures advertised capacity. On any failure the
// partially created endpoint directory is removed and no process is left
// behind.
func (m *InstanceManager) Start(config *Config) (capacity Capacity, err error) {
	id := config.GetID()
	m.mu.Lock()
	if _, ok := m.instances[id]; ok {
		m.mu.Unlock()
		err = &LaunchError{ID: id, Err: fmt.Errorf("instance already running")}
		return
	}
	m.mu.Unlock()

	log := m.log.GetLog(m.log.Prefix(), append(m.log.Tags(), id.String())...)
	instance := &Instance{
		ID:          id,
		ContainerID: uuid.New().String(),
		endpointDir: m.EndpointDir(id),
		done:        make(chan struct{}),
	}
	os.RemoveAll(instance.endpointDir)
	if err = os.MkdirAll(instance.endpointDir, 0755); err != nil {
		err = &LaunchError{ID: id, Err: err}
		return
	}

	instance.cmd = newPluginCmd(config.Plugin.Command, instance.endpointDir)
	if startErr := instance.cmd.Start(); startErr != nil {
		os.RemoveAll(instance.endpointDir)
		err = &LaunchError{ID: id, Err: startErr}
		return
	}
	log.Debugf("launched %s (pid %d)", config.Plugin.Command.Value, instance.cmd.Process.Pid)
	go func() {
		instance.waitErr = instance.cmd.Wait()
		close(instance.done)
	}()

	if capacity, err = m.awaitReady(instance); err != nil {
		if termErr := m.terminate(log, instance); termErr != nil {
			log.Error(termErr)
		}
		os.RemoveAll(instance.endpointDir)
		err = &LaunchError{ID: id, Err: err}
		return
	}
	instance.Capacity = capacity

	m.mu.Lock()
	m.instances[id] = instance
	m.mu.Unlock()
	log.Infof("ready: capacity %v", capacity)
	capacity = capacity.Clone()
	return
}

// Stop terminates the backing process and removes endpoint artifacts.
// Stopping an absent identity is a no-op success.
func (m *InstanceManager) Stop(id ID) (err error) {
	m.mu.Lock()
	instance, ok := m.instances[id]
	if ok {
		delete(m.instances, id)
	}
	m.mu.Unlock()
	if !ok {
		m.log.Debugf("stop %s: not running", id)
		return
	}
	log := m.log.GetLog(m.log.Prefix(), append(m.log.Tags(), id.String())...)
	if err = m.terminate(log, instance); err != nil {
		return
	}
	if removeErr := os.RemoveAll(instance.endpointDir); removeErr != nil {
		log.Warningf("can't remove endpoint artifacts: %v", removeErr)
	}
	log.Info("stopped")
	return
}

// pluginExitError aborts readiness polling: a dead plugin never becomes ready
type pluginExitError struct {
	waitErr error
}

func (e *pluginExitError) Error() string {
	return fmt.Sprintf("plugin exited before ready: %v", e.waitErr)
}

type readinessClassifier struct{}

func (readinessClassifier) Classify(err error) retrier.Action {
	if err == nil {
		return retrier.Succeed
	}
	if _, ok := err.(*pluginExitError); ok {
		return retrier.Fail
	}
	return retrier.Retry
}

// awaitReady polls the plugin endpoint for the capacity advertisement
// within the launch timeout
func (m *InstanceManager) awaitReady(instance *Instance) (capacity Capacity, err error) {
	attempts := int(m.options.LaunchTimeout / readinessInterval)
	if attempts < 1 {
		attempts = 1
	}
	r := retrier.New(retrier.ConstantBackoff(attempts, readinessInterval), readinessClassifier{})
	err = r.RunCtx(m.Control.Ctx(), func(ctx context.Context) (err error) {
		select {
		case <-instance.done:
			err = &pluginExitError{waitErr: instance.waitErr}
			return
		default:
		}
		data, readErr := os.ReadFile(filepath.Join(instance.endpointDir, CapacityFile))
		if readErr != nil {
			err = readErr
			return
		}
		capacity = Capacity{}
		err = json.Unmarshal(data, &capacity)
		return
	})
	return
}

// terminate signals the plugin process group and force-kills after the
// grace period. Fails only if the final SIGKILL can't be delivered: the
// process group is then beyond the manager's control.
func (m *InstanceManager) terminate(log *logx.Log, instance *Instance) (err error) {
	select {
	case <-instance.done:
		return
	default:
	}
	pid := instance.cmd.Process.Pid
	if killErr := syscall.Kill(-pid, syscall.SIGTERM); killErr != nil && killErr != syscall.ESRCH {
		log.Warningf("SIGTERM pgid %d: %v", pid, killErr)
	}
	select {
	case <-instance.done:
	case <-time.After(m.options.StopGracePeriod):
		log.Warningf("grace period expired, sending SIGKILL to pgid %d", pid)
		if killErr := syscall.Kill(-pid, syscall.SIGKILL); killErr != nil && killErr != syscall.ESRCH {
			err = fmt.Errorf("SIGKILL pgid %d: %v", pid, killErr)
			return
		}
		<-instance.done
	}
	return
}

func newPluginCmd(command CommandSpec, endpointDir string) (cmd *exec.Cmd) {
	if command.Shell {
		cmd = exec.Command("/bin/sh", "-c", command.Value)
	} else {
		cmd = exec.Command(command.Value, command.Arguments...)
	}
	cmd.Env = append(os.Environ(), EndpointDirEnv+"="+endpointDir)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return
}
