package tapping

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-dualrole/dualrole/dance"
)

type recordingDispatcher struct {
	log []string
}

func (d *recordingDispatcher) Resolved(id dance.ID, e dance.Event) {
	d.log = append(d.log, fmt.Sprintf("resolve %s %s -> %s", id, e, dance.Classify(e)))
}

func (d *recordingDispatcher) Released(id dance.ID) {
	d.log = append(d.log, fmt.Sprintf("release %s", id))
}

var t0 = time.Unix(1000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestResolver(t *testing.T) {
	const spc, bspc = dance.SpaceNav, dance.BackspaceNum

	tests := []struct {
		name  string
		drive func(r *Resolver)
		want  []string
	}{
		{
			name: "tap released inside the term",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Release(spc, at(50))
				r.Tick(at(150))
				r.Tick(at(201))
			},
			want: []string{
				"resolve space_nav taps=1 interrupted=false pressed=false -> single-tap",
				"release space_nav",
			},
		},
		{
			name: "hold past the term",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Tick(at(200))
				r.Tick(at(201))
				r.Tick(at(400))
				r.Release(spc, at(500))
			},
			want: []string{
				"resolve space_nav taps=1 interrupted=false pressed=true -> single-hold",
				"release space_nav",
			},
		},
		{
			name: "tap interrupted by another key while held",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Interrupt(-1, at(40))
				r.Release(spc, at(60))
			},
			want: []string{
				"resolve space_nav taps=1 interrupted=true pressed=true -> single-tap",
				"release space_nav",
			},
		},
		{
			name: "double tap",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Release(spc, at(50))
				r.Press(spc, at(120))
				r.Release(spc, at(170))
				r.Tick(at(321))
			},
			want: []string{
				"resolve space_nav taps=2 interrupted=false pressed=false -> double-tap",
				"release space_nav",
			},
		},
		{
			name: "second press restarts the window",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Release(spc, at(50))
				r.Press(spc, at(150))
				r.Tick(at(250))
				r.Tick(at(351))
				r.Release(spc, at(600))
			},
			want: []string{
				"resolve space_nav taps=2 interrupted=false pressed=true -> double-hold",
				"release space_nav",
			},
		},
		{
			name: "double interrupted",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Release(spc, at(30))
				r.Press(spc, at(60))
				r.Release(spc, at(90))
				r.Interrupt(-1, at(100))
			},
			want: []string{
				"resolve space_nav taps=2 interrupted=true pressed=false -> repeated-single-tap",
				"release space_nav",
			},
		},
		{
			name: "triple tap",
			drive: func(r *Resolver) {
				for i := 0; i < 3; i++ {
					r.Press(spc, at(i*60))
					r.Release(spc, at(i*60+30))
				}
				r.Tick(at(400))
			},
			want: []string{
				"resolve space_nav taps=3 interrupted=false pressed=false -> unclassified",
				"release space_nav",
			},
		},
		{
			name: "one dance interrupts the other",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Interrupt(bspc, at(20))
				r.Press(bspc, at(20))
				r.Release(bspc, at(60))
				r.Release(spc, at(80))
				r.Tick(at(300))
			},
			want: []string{
				"resolve space_nav taps=1 interrupted=true pressed=true -> single-tap",
				"release space_nav",
				"resolve backspace_num taps=1 interrupted=false pressed=false -> single-tap",
				"release backspace_num",
			},
		},
		{
			name: "a key does not interrupt itself",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Release(spc, at(20))
				r.Interrupt(spc, at(40))
				r.Press(spc, at(40))
				r.Release(spc, at(60))
				r.Tick(at(241))
			},
			want: []string{
				"resolve space_nav taps=2 interrupted=false pressed=false -> double-tap",
				"release space_nav",
			},
		},
		{
			name: "interrupt after the window closed changes nothing",
			drive: func(r *Resolver) {
				r.Press(spc, at(0))
				r.Tick(at(250))
				r.Interrupt(-1, at(300))
				r.Release(spc, at(400))
			},
			want: []string{
				"resolve space_nav taps=1 interrupted=false pressed=true -> single-hold",
				"release space_nav",
			},
		},
		{
			name: "stray release is ignored",
			drive: func(r *Resolver) {
				r.Release(spc, at(0))
				r.Tick(at(500))
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			r := NewResolver(200*time.Millisecond, d)

			tt.drive(r)

			assert.Equal(t, tt.want, d.log)
			assert.False(t, r.Pending(), "every window should be closed")
		})
	}
}

func TestResolverPendingAndFlush(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewResolver(0, d)
	assert.Equal(t, DefaultTerm, r.Term())

	r.Press(dance.BackspaceNum, at(0))
	assert.True(t, r.Pending())
	assert.Equal(t, 1, r.TapCount(dance.BackspaceNum))

	r.Flush()
	assert.False(t, r.Pending())
	assert.Equal(t, []string{
		"resolve backspace_num taps=1 interrupted=false pressed=true -> single-hold",
		"release backspace_num",
	}, d.log)
}

func TestResolverSetTerm(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewResolver(100*time.Millisecond, d)
	r.SetTerm(-5)
	assert.Equal(t, 100*time.Millisecond, r.Term())
	r.SetTerm(300 * time.Millisecond)

	r.Press(dance.SpaceNav, at(0))
	r.Tick(at(250))
	assert.Empty(t, d.log, "window is still open under the longer term")
	r.Tick(at(301))
	assert.Len(t, d.log, 1)
}

func TestResolverIgnoresInvalidIDs(t *testing.T) {
	d := &recordingDispatcher{}
	r := NewResolver(DefaultTerm, d)

	r.Press(dance.ID(9), at(0))
	r.Release(dance.ID(9), at(10))
	r.Tick(at(1000))

	assert.Empty(t, d.log)
	assert.Equal(t, 0, r.TapCount(dance.ID(9)))
}
