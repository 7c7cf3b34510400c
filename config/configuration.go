// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package config resolves the network configuration effective at a given
// block height from the entries of a network configuration cache.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/proximax-storage/statecache/go/common"
)

const (
	// ErrMalformedConfiguration is reported for payloads that can not be
	// parsed.
	ErrMalformedConfiguration = common.ConstError("malformed configuration")
	// ErrMissingProperty is reported when accessing an undefined property.
	ErrMissingProperty = common.ConstError("missing property")
)

// EntityVersions lists the supported versions of one entity type.
type EntityVersions struct {
	Name              string   `json:"name"`
	Type              uint16   `json:"type,string"`
	SupportedVersions []uint32 `json:"supportedVersions"`
}

type supportedEntities struct {
	Entities []EntityVersions `json:"entities"`
}

// Configuration is a parsed network configuration. It is immutable and may
// be shared between goroutines.
type Configuration struct {
	sections map[string]map[string]string
	entities map[uint16]EntityVersions
}

// Parse reads a network configuration payload and the supported entity
// versions attached to it.
//
// The payload consists of [section] headers followed by key = value lines.
// Lines starting with # are comments. An empty entity version document is
// accepted and supports no entities.
func Parse(networkConfig, supportedEntityVersions string) (*Configuration, error) {
	res := &Configuration{
		sections: map[string]map[string]string{},
		entities: map[uint16]EntityVersions{},
	}
	if err := res.parseProperties(networkConfig); err != nil {
		return nil, err
	}
	if strings.TrimSpace(supportedEntityVersions) == "" {
		return res, nil
	}
	var versions supportedEntities
	if err := json.Unmarshal([]byte(supportedEntityVersions), &versions); err != nil {
		return nil, fmt.Errorf("%w: supported entity versions: %v", ErrMalformedConfiguration, err)
	}
	for _, entity := range versions.Entities {
		if _, found := res.entities[entity.Type]; found {
			return nil, fmt.Errorf("%w: duplicate entity type %d", ErrMalformedConfiguration, entity.Type)
		}
		res.entities[entity.Type] = entity
	}
	return res, nil
}

func (c *Configuration) parseProperties(payload string) error {
	var section map[string]string
	scanner := bufio.NewScanner(strings.NewReader(payload))
	for number := 1; scanner.Scan(); number++ {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "["):
			if !strings.HasSuffix(line, "]") || len(line) < 3 {
				return fmt.Errorf("%w: line %d: invalid section header %q", ErrMalformedConfiguration, number, line)
			}
			name := strings.TrimSpace(line[1 : len(line)-1])
			if _, found := c.sections[name]; found {
				return fmt.Errorf("%w: line %d: duplicate section %s", ErrMalformedConfiguration, number, name)
			}
			section = map[string]string{}
			c.sections[name] = section
		default:
			if section == nil {
				return fmt.Errorf("%w: line %d: property outside of section", ErrMalformedConfiguration, number)
			}
			key, value, found := strings.Cut(line, "=")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				return fmt.Errorf("%w: line %d: expected key = value", ErrMalformedConfiguration, number)
			}
			if _, found := section[key]; found {
				return fmt.Errorf("%w: line %d: duplicate key %s", ErrMalformedConfiguration, number, key)
			}
			section[key] = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedConfiguration, err)
	}
	return nil
}

// Sections lists the section names in ascending order.
func (c *Configuration) Sections() []string {
	res := make([]string, 0, len(c.sections))
	for name := range c.sections {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// String returns the raw value of a property.
func (c *Configuration) String(section, key string) (string, error) {
	value, found := c.sections[section][key]
	if !found {
		return "", fmt.Errorf("%w: %s::%s", ErrMissingProperty, section, key)
	}
	return value, nil
}

// Uint64 parses a numeric property. Digit group separators (') are ignored.
func (c *Configuration) Uint64(section, key string) (uint64, error) {
	value, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	res, err := strconv.ParseUint(strings.ReplaceAll(value, "'", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s::%s: %v", ErrMalformedConfiguration, section, key, err)
	}
	return res, nil
}

func (c *Configuration) Bool(section, key string) (bool, error) {
	value, err := c.String(section, key)
	if err != nil {
		return false, err
	}
	res, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s::%s: %v", ErrMalformedConfiguration, section, key, err)
	}
	return res, nil
}

// Duration parses a time span such as 500ms, 15s, 10m, 2h or 3d.
func (c *Configuration) Duration(section, key string) (time.Duration, error) {
	value, err := c.String(section, key)
	if err != nil {
		return 0, err
	}
	if days, found := strings.CutSuffix(value, "d"); found {
		count, err := strconv.ParseUint(strings.ReplaceAll(days, "'", ""), 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %s::%s: %v", ErrMalformedConfiguration, section, key, err)
		}
		return time.Duration(count) * 24 * time.Hour, nil
	}
	res, err := time.ParseDuration(strings.ReplaceAll(value, "'", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: %s::%s: %v", ErrMalformedConfiguration, section, key, err)
	}
	return res, nil
}

// SupportsVersion tests whether the given version of an entity type is
// supported.
func (c *Configuration) SupportsVersion(entityType uint16, version uint32) bool {
	for _, cur := range c.entities[entityType].SupportedVersions {
		if cur == version {
			return true
		}
	}
	return false
}

// Entity returns the supported versions of an entity type.
func (c *Configuration) Entity(entityType uint16) (EntityVersions, bool) {
	res, found := c.entities[entityType]
	return res, found
}
