package provider

import (
	"fmt"

	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/hashstructure"
)

// ID is resource provider identity. Two configs with equal Type and Name
// occupy the same identity regardless of where they are stored.
type ID struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

func (i ID) String() string {
	return i.Type + "." + i.Name
}

func (i ID) IsEmpty() (res bool) {
	res = i.Type == "" && i.Name == ""
	return
}

// Config represents one resource provider configuration
type Config struct {
	Type                string        `json:"type" validate:"required"`
	Name                string        `json:"name" validate:"required"`
	DefaultReservations []Reservation `json:"default_reservations,omitempty" validate:"dive"`
	Plugin              PluginSpec    `json:"plugin" validate:"required"`
}

// Reservation is applied by the allocator to resources advertised by the
// provider plugin.
type Reservation struct {
	Type string `json:"type" validate:"required,oneof=STATIC DYNAMIC"`
	Role string `json:"role" validate:"required"`
}

// PluginSpec declares the storage plugin process backing the provider.
type PluginSpec struct {
	Services []string    `json:"services" validate:"required,min=1"`
	Command  CommandSpec `json:"command" validate:"required"`
}

type CommandSpec struct {
	Shell     bool     `json:"shell,omitempty"`
	Value     string   `json:"value" validate:"required"`
	Arguments []string `json:"arguments,omitempty"`
}

func (c *Config) GetID() (id ID) {
	id = ID{
		Type: c.Type,
		Name: c.Name,
	}
	return
}

func (c *Config) IsEqual(config *Config) (res bool) {
	leftHash, _ := hashstructure.Hash(c, nil)
	rightHash, _ := hashstructure.Hash(config, nil)
	res = leftHash == rightHash
	return
}

func (c *Config) Clone() (res *Config) {
	c1, _ := copystructure.Copy(c)
	res = c1.(*Config)
	return
}

// Capacity is the resource advertisement snapshot captured from a running
// plugin: resource name to quantity.
type Capacity map[string]string

func (c Capacity) IsEqual(capacity Capacity) (res bool) {
	leftHash, _ := hashstructure.Hash(c, nil)
	rightHash, _ := hashstructure.Hash(capacity, nil)
	res = leftHash == rightHash
	return
}

func (c Capacity) Clone() (res Capacity) {
	if c == nil {
		return
	}
	res = make(Capacity, len(c))
	for k, v := range c {
		res[k] = v
	}
	return
}

// OfferImpact is sent to the upstream publisher after each successful
// mutation. Old is nil on Add, New is nil on Remove.
type OfferImpact struct {
	ID  ID
	Old Capacity
	New Capacity
}

func (i OfferImpact) String() string {
	return fmt.Sprintf("%s:%v->%v", i.ID, i.Old, i.New)
}

// Publisher accepts total resource deltas. The upstream contract is that
// any outstanding offer built from Old is rescinded before offers built
// from New are issued.
type Publisher interface {
	PublishResourceUpdate(impact OfferImpact)
}
