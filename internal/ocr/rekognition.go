package ocr

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
	"github.com/ironsheep/partnum-ocr/internal/partnum"
)

// RekognitionMaxImageBytes is the largest image DetectText accepts inline.
const RekognitionMaxImageBytes = 5 * 1024 * 1024

// DetectTextAPI is the part of the Rekognition client the engine uses.
type DetectTextAPI interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Rekognition recognizes text with the AWS Rekognition DetectText API.
// The AWS client is safe for concurrent use, so no locking is needed.
type Rekognition struct {
	client DetectTextAPI
	region string
}

// NewRekognition loads the default AWS credential chain for region and
// creates the engine.
func NewRekognition(ctx context.Context, region string) (*Rekognition, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewRekognitionWithClient(rekognition.NewFromConfig(cfg), region), nil
}

// NewRekognitionWithClient wraps an existing client.
func NewRekognitionWithClient(client DetectTextAPI, region string) *Rekognition {
	return &Rekognition{client: client, region: region}
}

// Name returns "rekognition".
func (r *Rekognition) Name() string { return "rekognition" }

// Version returns the AWS region the engine calls, since the service has no
// client-visible model version.
func (r *Rekognition) Version() string { return r.region }

// ChannelOrder returns imaging.OrderRGB.
func (r *Rekognition) ChannelOrder() imaging.ChannelOrder { return imaging.OrderRGB }

// Recognize returns LINE detections in the order Rekognition reports them.
// WORD detections are ignored since every word also appears in a line.
func (r *Rekognition) Recognize(ctx context.Context, buf *imaging.PixelBuffer) ([]partnum.Detection, error) {
	data, err := buf.EncodePNG()
	if err != nil {
		return nil, err
	}
	if len(data) > RekognitionMaxImageBytes {
		return nil, fmt.Errorf("image is %d bytes after encoding, Rekognition accepts at most %d", len(data), RekognitionMaxImageBytes)
	}

	out, err := r.client.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: data},
	})
	if err != nil {
		return nil, fmt.Errorf("DetectText failed: %w", err)
	}

	detections := make([]partnum.Detection, 0, len(out.TextDetections))
	for _, td := range out.TextDetections {
		if td.Type != types.TextTypesLine {
			continue
		}
		detections = append(detections, partnum.Detection{
			Text:       aws.ToString(td.DetectedText),
			Confidence: float64(aws.ToFloat32(td.Confidence)) / 100.0,
			Bounds:     pixelBounds(td.Geometry, buf.Width, buf.Height),
		})
	}
	return detections, nil
}

// pixelBounds converts Rekognition's ratio-based box into pixels.
func pixelBounds(g *types.Geometry, width, height int) partnum.Bounds {
	if g == nil || g.BoundingBox == nil {
		return partnum.Bounds{}
	}
	bb := g.BoundingBox
	left := float64(aws.ToFloat32(bb.Left))
	top := float64(aws.ToFloat32(bb.Top))
	w := float64(aws.ToFloat32(bb.Width))
	h := float64(aws.ToFloat32(bb.Height))
	return partnum.Bounds{
		X1: int(left * float64(width)),
		Y1: int(top * float64(height)),
		X2: int((left + w) * float64(width)),
		Y2: int((top + h) * float64(height)),
	}
}
