package core_test

import (
	"testing"

	"github.com/primecut-foods/butchery-api/internal/core"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name  string
		flags core.OrderFlags
		want  string
	}{
		{"all clear", core.OrderFlags{}, core.StatusNew},
		{"ready only", core.OrderFlags{Ready: true}, core.StatusReady},
		{"pending only", core.OrderFlags{Pending: true}, core.StatusPending},
		{"ready and pending", core.OrderFlags{Ready: true, Pending: true}, core.StatusReadyPending},
		{"delivered only", core.OrderFlags{Delivered: true}, core.StatusDelivered},
		{"delivered wins over everything", core.OrderFlags{Ready: true, Pending: true, Delivered: true}, core.StatusDelivered},
		{"delivered wins over ready", core.OrderFlags{Ready: true, Delivered: true}, core.StatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.DeriveStatus(tt.flags); got != tt.want {
				t.Errorf("DeriveStatus(%+v) = %q, want %q", tt.flags, got, tt.want)
			}
		})
	}
}

// step is one flag toggle in a transition sequence.
type step struct {
	set   string // "ready", "pending", "delivered"
	value bool
}

func TestFlagTransitionSequences(t *testing.T) {
	tests := []struct {
		name       string
		steps      []step
		wantFlags  core.OrderFlags
		wantStatus string
		wantIssues string
	}{
		{
			name:       "deliver clears ready and pending",
			steps:      []step{{"ready", true}, {"pending", true}, {"delivered", true}},
			wantFlags:  core.OrderFlags{Delivered: true},
			wantStatus: core.StatusDelivered,
			wantIssues: "",
		},
		{
			name:       "pending forces delivered off",
			steps:      []step{{"delivered", true}, {"pending", true}},
			wantFlags:  core.OrderFlags{Pending: true},
			wantStatus: core.StatusPending,
			wantIssues: "waiting on lamb shoulder",
		},
		{
			name:       "clearing pending clears the issue text",
			steps:      []step{{"pending", true}, {"pending", false}},
			wantFlags:  core.OrderFlags{},
			wantStatus: core.StatusNew,
			wantIssues: "",
		},
		{
			name:       "ready then pending keeps both",
			steps:      []step{{"ready", true}, {"pending", true}},
			wantFlags:  core.OrderFlags{Ready: true, Pending: true},
			wantStatus: core.StatusReadyPending,
			wantIssues: "waiting on lamb shoulder",
		},
		{
			name:       "undeliver returns to new",
			steps:      []step{{"delivered", true}, {"delivered", false}},
			wantFlags:  core.OrderFlags{},
			wantStatus: core.StatusNew,
			wantIssues: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &core.Order{PendingIssues: "waiting on lamb shoulder"}
			for _, s := range tt.steps {
				switch s.set {
				case "ready":
					order.SetReady(s.value)
				case "pending":
					order.SetPending(s.value)
				case "delivered":
					order.SetDelivered(s.value)
				}
			}

			if order.Flags != tt.wantFlags {
				t.Errorf("flags = %+v, want %+v", order.Flags, tt.wantFlags)
			}
			if order.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", order.Status, tt.wantStatus)
			}
			if order.PendingIssues != tt.wantIssues {
				t.Errorf("pending issues = %q, want %q", order.PendingIssues, tt.wantIssues)
			}
		})
	}
}

func TestSetDeliveredClearsIssueText(t *testing.T) {
	order := &core.Order{PendingIssues: "short two chickens"}
	order.SetPending(true)
	order.SetDelivered(true)

	if order.PendingIssues != "" {
		t.Errorf("pending issues = %q, want cleared", order.PendingIssues)
	}
	if order.Flags.Pending || order.Flags.Ready {
		t.Errorf("delivered order kept workflow flags: %+v", order.Flags)
	}
}
