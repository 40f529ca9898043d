// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Projeto WYD Contributors

package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThGalvani/projeto-wyd/internal/item"
)

func TestPlayer_Slot(t *testing.T) {
	p := &Player{ID: 1}
	p.Carry[3] = item.Stack{Index: 1200}
	p.Cargo[100] = item.Stack{Index: 800}

	s, err := p.Slot(ContainerCarry, 3)
	require.NoError(t, err)
	assert.Equal(t, int16(1200), s.Index)

	s, err = p.Slot(ContainerCargo, 100)
	require.NoError(t, err)
	assert.Equal(t, int16(800), s.Index)

	_, err = p.Slot(ContainerCarry, MaxCarry)
	assert.Error(t, err)
	_, err = p.Slot(ContainerCargo, -1)
	assert.Error(t, err)
	_, err = p.Slot(Container(9), 0)
	assert.Error(t, err)
}

func TestSlotInRange(t *testing.T) {
	assert.True(t, SlotInRange(ContainerCarry, 0))
	assert.True(t, SlotInRange(ContainerCarry, MaxCarry-1))
	assert.False(t, SlotInRange(ContainerCarry, MaxCarry))
	assert.True(t, SlotInRange(ContainerCargo, MaxCargo-1))
	assert.False(t, SlotInRange(ContainerCargo, MaxCargo))
	assert.False(t, SlotInRange(Container(9), 0))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, 0, m.Len())

	m.Add(&Player{ID: 7, Name: "Arn"})
	p, ok := m.Get(7)
	require.True(t, ok)
	assert.Equal(t, "Arn", p.Name)

	_, ok = m.Get(8)
	assert.False(t, ok)

	m.Remove(7)
	_, ok = m.Get(7)
	assert.False(t, ok)
}

func TestContainer_String(t *testing.T) {
	assert.Equal(t, "carry", ContainerCarry.String())
	assert.Equal(t, "cargo", ContainerCargo.String())
	assert.Equal(t, "container(9)", Container(9).String())
}
