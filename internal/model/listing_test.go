package model

import "testing"

func TestCanonicalListingStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   ListingStatus
		wantOK bool
	}{
		{raw: "AVAILABLE", want: ListingStatusAvailable, wantOK: true},
		{raw: "ACTIVE", want: ListingStatusAvailable, wantOK: true},
		{raw: "LOCKED", want: ListingStatusLocked, wantOK: true},
		{raw: "PENDING", want: ListingStatusLocked, wantOK: true},
		{raw: "TRADED", want: ListingStatusTraded, wantOK: true},
		{raw: "COMPLETED", want: ListingStatusTraded, wantOK: true},
		{raw: "DELETED", want: ListingStatusDeleted, wantOK: true},
		{raw: "SOLD", wantOK: false},
		{raw: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CanonicalListingStatus(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
