package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
)

const sampleJSON = `{
  "streams": [
    {"codec_name": "mjpeg", "codec_type": "video", "width": 300, "height": 300, "disposition": {"attached_pic": 1}},
    {"codec_name": "h264", "codec_type": "video", "width": 640, "height": 360, "bit_rate": "1000000", "disposition": {"attached_pic": 0}},
    {"codec_name": "aac", "codec_type": "audio", "bit_rate": "128000"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "12.5", "bit_rate": "1200000"}
}`

func TestParseJSON_PrimaryVideo(t *testing.T) {
	res, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props, ok := res.Properties()
	if !ok {
		t.Fatal("expected probed properties")
	}
	want := encoding.SourceProperties{Codec: "h264", Width: 640, Height: 360, Bitrate: 1_000_000}
	if props != want {
		t.Errorf("got %+v; want %+v", props, want)
	}
}

func TestParseJSON_FallsBackToFormatBitrate(t *testing.T) {
	data := `{"streams":[{"codec_name":"hevc","codec_type":"video","width":1920,"height":1080}],"format":{"bit_rate":"4500000"}}`
	res, err := ParseJSON([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	props, _ := res.Properties()
	if props.Bitrate != 4_500_000 {
		t.Errorf("bitrate = %d; want 4500000", props.Bitrate)
	}
}

func TestParseJSON_NoVideo(t *testing.T) {
	res, err := ParseJSON([]byte(`{"streams":[{"codec_type":"audio"}],"format":{}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Properties(); ok {
		t.Error("expected unavailable result")
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	res, err := ParseJSON([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := res.Properties(); ok {
		t.Error("expected unavailable result")
	}
}

func TestProber_Probe(t *testing.T) {
	var gotBin string
	var gotArgs []string
	p := NewProberWithRunner("/usr/bin/ffprobe", func(ctx context.Context, bin string, args ...string) ([]byte, error) {
		gotBin = bin
		gotArgs = args
		return []byte(sampleJSON), nil
	})

	res := p.Probe(context.Background(), "/tmp/in.mp4")
	if _, ok := res.Properties(); !ok {
		t.Fatal("expected probed result")
	}
	if gotBin != "/usr/bin/ffprobe" {
		t.Errorf("bin = %q", gotBin)
	}
	if gotArgs[len(gotArgs)-1] != "/tmp/in.mp4" {
		t.Errorf("last arg = %q; want input path", gotArgs[len(gotArgs)-1])
	}
}

func TestProber_ProbeErrorIsUnavailable(t *testing.T) {
	p := NewProberWithRunner("", func(ctx context.Context, bin string, args ...string) ([]byte, error) {
		if bin != "ffprobe" {
			t.Errorf("default bin = %q; want ffprobe", bin)
		}
		return nil, errors.New("exit status 1")
	})

	res := p.Probe(context.Background(), "/tmp/broken.mp4")
	if _, ok := res.Properties(); ok {
		t.Error("expected unavailable result on ffprobe failure")
	}
}
