package core

import (
	"testing"

	"github.com/kat-co/vala"
	"github.com/stretchr/testify/assert"
)

type structLogger struct{ nopLogger }

func TestIsNotNil(t *testing.T) {
	var nilPtr *nopLogger
	var nilLogger Logger

	tests := []struct {
		name     string
		obtained interface{}
		wantErr  bool
	}{
		{name: "struct value", obtained: structLogger{}},
		{name: "pointer", obtained: &nopLogger{}},
		{name: "nop logger", obtained: NewNopLogger()},
		{name: "nil interface", obtained: nilLogger, wantErr: true},
		{name: "nil pointer", obtained: nilPtr, wantErr: true},
		{name: "nil map", obtained: map[string]int(nil), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				err = vala.BeginValidation().Validate(IsNotNil(tt.obtained, "logger")).Check()
			})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "logger")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCleanEmail(t *testing.T) {
	assert.Equal(t, "amina@class.ma", CleanEmail("  Amina@Class.MA "))
}
