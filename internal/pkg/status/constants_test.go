package status

import (
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		st   Status
		want string
	}{
		{st: Submitted, want: "submitted"},
		{st: Processing, want: "processing"},
		{st: Completed, want: "completed"},
		{st: Failed, want: "failed"},
		{st: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.st.String(); got != tt.want {
				t.Errorf("Status.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	tests := []struct {
		st   string
		want Status
	}{
		{st: "submitted", want: Submitted},
		{st: "processing", want: Processing},
		{st: "Completed", want: Completed},
		{st: " failed ", want: Failed},
		{st: "olia", want: 0},
		{st: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.st, func(t *testing.T) {
			if got := From(tt.st); got != tt.want {
				t.Errorf("From() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatus_IsFinal(t *testing.T) {
	tests := []struct {
		st   Status
		want bool
	}{
		{st: Submitted, want: false},
		{st: Processing, want: false},
		{st: Completed, want: true},
		{st: Failed, want: true},
		{st: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.st.String(), func(t *testing.T) {
			if got := tt.st.IsFinal(); got != tt.want {
				t.Errorf("IsFinal() = %v, want %v", got, tt.want)
			}
		})
	}
}
