package adapter_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/memoir/pkg/adapter"
)

func TestParseStorageRef(t *testing.T) {
	testCases := []struct {
		name   string
		ref    string
		bucket string
		object string
		ok     bool
	}{
		{
			name:   "simple object",
			ref:    "gs://my-bucket/photo.jpg",
			bucket: "my-bucket",
			object: "photo.jpg",
			ok:     true,
		},
		{
			name:   "nested object path",
			ref:    "gs://my-bucket/2025/10/photo.jpg",
			bucket: "my-bucket",
			object: "2025/10/photo.jpg",
			ok:     true,
		},
		{
			name: "local path",
			ref:  "/home/user/photo.jpg",
		},
		{
			name: "bucket without object",
			ref:  "gs://my-bucket",
		},
		{
			name: "empty object",
			ref:  "gs://my-bucket/",
		},
		{
			name: "empty ref",
			ref:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bucket, object, ok := adapter.ParseStorageRef(tc.ref)
			gt.Equal(t, ok, tc.ok)
			gt.Equal(t, bucket, tc.bucket)
			gt.Equal(t, object, tc.object)
		})
	}
}
