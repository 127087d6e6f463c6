package txnscan

import "testing"

func TestExtract(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "wallet txn id label",
			text: "Payment successful\nWallet Txn ID: 123456789012\nThank you",
			want: "123456789012",
			ok:   true,
		},
		{
			name: "ocr reads ID as 1D",
			text: "Wallet Txn 1D: 987654321098",
			want: "987654321098",
			ok:   true,
		},
		{
			name: "transaction id label",
			text: "Transaction ID 4567890123456",
			want: "4567890123456",
			ok:   true,
		},
		{
			name: "upi reference",
			text: "UPI Ref: 112233445566",
			want: "112233445566",
			ok:   true,
		},
		{
			name: "order id with hyphen",
			text: "Order-ID: 998877665544",
			want: "998877665544",
			ok:   true,
		},
		{
			name: "labelled id wins over earlier bare run",
			text: "5566778899001 something Txn ID: 123456789012",
			want: "123456789012",
			ok:   true,
		},
		{
			name: "bare digit run fallback",
			text: "Paid to Canteen\n402938475610\nCompleted",
			want: "402938475610",
			ok:   true,
		},
		{
			name: "bare run in balance line rejected",
			text: "Balance 1234567890123",
			ok:   false,
		},
		{
			name: "bare run after group label rejected",
			text: "Group 9988776655443",
			ok:   false,
		},
		{
			name: "bare run on date line rejected",
			text: "12 Mar 2026, 1030405060708 PM",
			ok:   false,
		},
		{
			name: "digits embedded in longer number skipped",
			text: "card 12345678901234567890",
			ok:   false,
		},
		{
			name: "too short",
			text: "Txn ID: 12345",
			ok:   false,
		},
		{
			name: "no digits at all",
			text: "payment completed successfully",
			ok:   false,
		},
		{
			name: "labelled id survives date elsewhere in text",
			text: "12 Mar 2026\nWallet Txn ID: 123456789012",
			want: "123456789012",
			ok:   true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Extract(tc.text)
			if ok != tc.ok {
				t.Fatalf("Extract(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("Extract(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
