package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectNodeLookupArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare node id",
			in:   []string{"accordion", "node-abc123"},
			want: []string{"accordion", "show", "node-abc123"},
		},
		{
			name: "node id after persistent flags",
			in:   []string{"accordion", "--dir", "/tmp/x", "node-abc123"},
			want: []string{"accordion", "--dir", "/tmp/x", "show", "node-abc123"},
		},
		{
			name: "flag=value form does not consume the id",
			in:   []string{"accordion", "--workspace=notes", "node-abc123"},
			want: []string{"accordion", "--workspace=notes", "show", "node-abc123"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"accordion", "list"},
			want: []string{"accordion", "list"},
		},
		{
			name: "existing show untouched",
			in:   []string{"accordion", "show", "node-abc123"},
			want: []string{"accordion", "show", "node-abc123"},
		},
		{
			name: "double dash then id",
			in:   []string{"accordion", "--", "node-abc123"},
			want: []string{"accordion", "--", "show", "node-abc123"},
		},
		{
			name: "bool flag then id",
			in:   []string{"accordion", "--pretty", "node-abc123"},
			want: []string{"accordion", "--pretty", "show", "node-abc123"},
		},
		{
			name: "no args",
			in:   []string{"accordion"},
			want: []string{"accordion"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectNodeLookupArgs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("rewrite(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsNodeID(t *testing.T) {
	t.Parallel()

	if !isNodeID("node-abc123") {
		t.Fatalf("expected node-abc123 to be a node id")
	}
	if isNodeID("node-") {
		t.Fatalf("bare prefix is not a node id")
	}
	if isNodeID("item-abc") {
		t.Fatalf("foreign prefix is not a node id")
	}
}
