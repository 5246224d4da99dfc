// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModule struct {
	name string
}

func (m fakeModule) Name() string { return m.name }

func TestEnv_RegisterFindModule(t *testing.T) {
	env := NewEnv(RuleBER)
	env.RegisterModule(fakeModule{name: "PKIX1Explicit88"})

	m, err := env.FindModule("PKIX1Explicit88")
	require.NoError(t, err)
	assert.Equal(t, "PKIX1Explicit88", m.Name())
}

func TestEnv_FindModule_NotFound(t *testing.T) {
	env := NewEnv(RuleBER)
	_, err := env.FindModule("Missing")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestEnv_UnregisterModule(t *testing.T) {
	env := NewEnv(RuleBER)
	env.RegisterModule(fakeModule{name: "M"})
	env.UnregisterModule("M")

	_, err := env.FindModule("M")
	require.ErrorIs(t, err, ErrModuleNotFound)
}

func TestEnv_RegisterModule_Replaces(t *testing.T) {
	env := NewEnv(RuleBER)
	env.RegisterModule(fakeModule{name: "M"})
	env.RegisterModule(fakeModule{name: "M"}) // re-registering the same name is fine

	m, err := env.FindModule("M")
	require.NoError(t, err)
	assert.Equal(t, "M", m.Name())
}

func TestEnv_FindModule_ConcurrentLookupsCollapse(t *testing.T) {
	env := NewEnv(RuleBER)
	env.RegisterModule(fakeModule{name: "M"})

	const workers = 32
	var wg sync.WaitGroup
	wg.Add(workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.FindModule("M")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestEnv_ZeroValue_UsesFreshRegistry(t *testing.T) {
	var env Env // zero value, no NewEnv call
	env.RegisterModule(fakeModule{name: "M"})

	m, err := env.FindModule("M")
	require.NoError(t, err)
	assert.Equal(t, "M", m.Name())
}
