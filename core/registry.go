// File: core/registry.go
// Package core orchestrates multicore bring-up and cross-core run
// injection: affinity binding, NUMA-local per-core regions, privileged
// entry and per-core identity recording.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The Registry owns every process-wide table (regions, runlists, identity
// map, runner datastore) that older dataplanes kept in globals. Slots are
// written once by the owning core during bring-up and read-only after, so
// reads need no locks once a core is online.

package core

import (
	"fmt"
	"log"
	"runtime"
	"sync/atomic"

	"github.com/momentics/corebind/affinity"
	"github.com/momentics/corebind/api"
	"github.com/momentics/corebind/cpuinfo"
	"github.com/momentics/corebind/pool"
	"github.com/momentics/corebind/privmode"
)

// MaxCores is the compile-time bound on per-core tables. Configurations
// beyond it are rejected at initialization; the tables never grow.
const MaxCores = 128

// DefaultRunnerCapacity is the shared backing-store size for runner
// records across all cores.
const DefaultRunnerCapacity = 1024

// DefaultTemplateSize is the per-core state template size in bytes.
const DefaultTemplateSize = 4096

// State is the bring-up stage of one core. Transitions are one-way.
type State int32

const (
	StateUnconfigured State = iota
	StateAffinityBound
	StateMemoryAllocated
	StatePrivileged
	StateOnline
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateAffinityBound:
		return "affinity-bound"
	case StateMemoryAllocated:
		return "memory-allocated"
	case StatePrivileged:
		return "privileged"
	case StateOnline:
		return "online"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Entry is one core's identity record, written once during bring-up.
type Entry struct {
	Core   int
	Node   int
	APICID int
}

// Config carries process-wide initialization parameters. Zero values pick
// defaults; the injected interfaces default to the real platform
// implementations.
type Config struct {
	CoreCount      int    // 0 = detect via runtime.NumCPU
	MaxCores       int    // 0 = MaxCores
	RunnerCapacity int    // 0 = DefaultRunnerCapacity
	TemplateSize   int    // 0 = DefaultTemplateSize
	PageSize       int    // 0 = the platform page size
	IdentityPath   string // "" = cpuinfo.DefaultPath

	Affinity api.Affinity
	Pages    api.PageAllocator
	Entry    api.EntryMechanism
}

func (c *Config) fillDefaults() {
	if c.MaxCores == 0 {
		c.MaxCores = MaxCores
	}
	if c.RunnerCapacity == 0 {
		c.RunnerCapacity = DefaultRunnerCapacity
	}
	if c.TemplateSize == 0 {
		c.TemplateSize = DefaultTemplateSize
	}
	if c.PageSize == 0 {
		c.PageSize = pool.DefaultPageSize()
	}
	if c.IdentityPath == "" {
		c.IdentityPath = cpuinfo.DefaultPath
	}
	if c.Affinity == nil {
		c.Affinity = affinity.Default()
	}
	if c.Pages == nil {
		c.Pages = pool.DefaultPageAllocator()
	}
	if c.Entry == nil {
		c.Entry = privmode.Default()
	}
}

// Registry holds all process-wide multicore state.
type Registry struct {
	cfg    Config
	count  int
	idmap  *cpuinfo.Table
	ds     *pool.Datastore[runner]
	active atomic.Int32

	// Indexed by core number. Each slot is written only by its owning
	// core during bring-up.
	regions  [][]byte
	runlists []runlist
	entries  []Entry
	states   []atomic.Int32
}

// New performs process-wide initialization: core count detection and
// validation, runner datastore creation and identity table construction.
// Any failure here prevents the system from starting.
func New(cfg Config) (*Registry, error) {
	cfg.fillDefaults()
	count := cfg.CoreCount
	if count == 0 {
		count = runtime.NumCPU()
	}
	if count <= 0 || count > cfg.MaxCores {
		return nil, fmt.Errorf("core: %d configured cores (supported 1..%d): %w",
			count, cfg.MaxCores, api.ErrInvalidConfig)
	}
	ds, err := pool.NewDatastore[runner](cfg.RunnerCapacity)
	if err != nil {
		return nil, err
	}
	idmap, err := cpuinfo.Load(cfg.IdentityPath)
	if err != nil {
		return nil, err
	}
	if idmap.Len() > cfg.MaxCores {
		return nil, fmt.Errorf("core: identity table holds %d records (supported %d): %w",
			idmap.Len(), cfg.MaxCores, api.ErrInvalidConfig)
	}
	log.Printf("core: detected %d cores", count)
	return &Registry{
		cfg:      cfg,
		count:    count,
		idmap:    idmap,
		ds:       ds,
		regions:  make([][]byte, count),
		runlists: make([]runlist, count),
		entries:  make([]Entry, count),
		states:   make([]atomic.Int32, count),
	}, nil
}

// BringUp takes the calling thread through the full bring-up sequence for
// core and returns the owner handle. It must be called once per core, from
// the worker thread dedicated to it. Every failure is terminal for that
// core; other cores are unaffected.
func (r *Registry) BringUp(core int) (*Core, error) {
	if core < 0 || core >= r.count {
		return nil, fmt.Errorf("core: bring-up of core %d: %w", core, api.ErrInvalidCore)
	}
	st := &r.states[core]
	if !st.CompareAndSwap(int32(StateUnconfigured), int32(StateAffinityBound)) {
		return nil, fmt.Errorf("core: core %d: %w: bring-up already started (state %s)",
			core, api.ErrAlreadyOnline, State(st.Load()))
	}
	fail := func(err error) (*Core, error) {
		st.Store(int32(StateFailed))
		log.Printf("core: bring-up of core %d failed: %v", core, err)
		return nil, err
	}

	if err := r.cfg.Affinity.Pin(core); err != nil {
		return fail(fmt.Errorf("core: binding to core %d: %w: %w", core, api.ErrPermission, err))
	}
	cur, node, err := r.cfg.Affinity.Current()
	if err != nil {
		return fail(fmt.Errorf("core: placement query: %w: %w", api.ErrNotSupported, err))
	}
	if cur != core {
		return fail(fmt.Errorf("core: %w: thread landed on core %d, requested %d",
			api.ErrConsistency, cur, core))
	}

	block, err := r.allocRegion(core, node)
	if err != nil {
		return fail(err)
	}
	st.Store(int32(StateMemoryAllocated))

	guard := privmode.NewGuard(r.cfg.Entry)
	if err := guard.Enter(block); err != nil {
		return fail(err)
	}
	st.Store(int32(StatePrivileged))

	apic, ok := r.idmap.APICID(core)
	if !ok {
		return fail(fmt.Errorf("core: %w: no hardware identity for core %d", api.ErrConsistency, core))
	}
	r.entries[core] = Entry{Core: core, Node: node, APICID: apic}

	c := &Core{
		nr:       core,
		node:     node,
		apic:     apic,
		reg:      r,
		pool:     pool.NewPool(r.ds),
		deferred: newDeferred(),
		guard:    guard,
	}
	st.Store(int32(StateOnline))
	r.active.Add(1)
	log.Printf("core: started core %d, numa node %d, apicid %d", core, node, apic)
	return c, nil
}

// Count returns the configured number of cores.
func (r *Registry) Count() int { return r.count }

// Active returns how many cores have reached the online state.
func (r *Registry) Active() int { return int(r.active.Load()) }

// CoreState returns the bring-up stage of a core.
func (r *Registry) CoreState(core int) State {
	if core < 0 || core >= r.count {
		return StateUnconfigured
	}
	return State(r.states[core].Load())
}

// Identity returns the identity record of an online core.
func (r *Registry) Identity(core int) (Entry, bool) {
	if core < 0 || core >= r.count || State(r.states[core].Load()) != StateOnline {
		return Entry{}, false
	}
	return r.entries[core], true
}

// Pending reports how many runners are queued for a core. Debug surface.
func (r *Registry) Pending(core int) int {
	if core < 0 || core >= r.count {
		return 0
	}
	return r.runlists[core].pending()
}

// CoreStatus is one core's externally visible state.
type CoreStatus struct {
	Core    int    `json:"core"`
	State   string `json:"state"`
	Node    int    `json:"numa_node"`
	APICID  int    `json:"apicid"`
	Pending int    `json:"pending"`
}

// Snapshot returns the status of every configured core.
func (r *Registry) Snapshot() []CoreStatus {
	out := make([]CoreStatus, r.count)
	for i := 0; i < r.count; i++ {
		s := CoreStatus{
			Core:    i,
			State:   State(r.states[i].Load()).String(),
			Node:    -1,
			APICID:  -1,
			Pending: r.runlists[i].pending(),
		}
		if e, ok := r.Identity(i); ok {
			s.Node, s.APICID = e.Node, e.APICID
		}
		out[i] = s
	}
	return out
}
