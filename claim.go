package display

import (
	"fmt"
	"reflect"
	"sync"
)

// owned tracks peripherals held by live adapters. It is the only state in this
// package shared between goroutines.
var owned = struct {
	sync.Mutex
	m map[Peripheral]struct{}
}{
	m: make(map[Peripheral]struct{}),
}

func claim(p Peripheral) error {
	if p == nil {
		return fmt.Errorf("display: nil peripheral")
	}
	if !reflect.TypeOf(p).Comparable() {
		return fmt.Errorf("display: peripheral type %T can't be owned, use a pointer", p)
	}

	owned.Lock()
	defer owned.Unlock()
	if _, taken := owned.m[p]; taken {
		return ErrInUse
	}
	owned.m[p] = struct{}{}
	return nil
}

func release(p Peripheral) {
	owned.Lock()
	delete(owned.m, p)
	owned.Unlock()
}
