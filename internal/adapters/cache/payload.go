package cache

import (
	"encoding/json"
	"fmt"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/ports"
)

// Stored form of a cached path. Segment kinds are kept as their one-letter
// names so payloads stay readable in the database and in Redis.
type pathPayload struct {
	Family   string           `json:"family"`
	Segments []segmentPayload `json:"segments"`
	Polyline [][2]float64     `json:"polyline"`
}

type segmentPayload struct {
	Kind    string  `json:"kind"`
	LengthM float64 `json:"length_m"`
	Param   float64 `json:"param"`
}

func encodePath(entry ports.CachedPath) ([]byte, error) {
	segs := entry.Path.Segments()
	p := pathPayload{
		Family:   string(entry.Path.Family()),
		Segments: make([]segmentPayload, 0, len(segs)),
		Polyline: make([][2]float64, 0, len(entry.Polyline)),
	}
	for _, s := range segs {
		p.Segments = append(p.Segments, segmentPayload{Kind: s.Kind.String(), LengthM: s.LengthM, Param: s.Param})
	}
	for _, pt := range entry.Polyline {
		p.Polyline = append(p.Polyline, [2]float64{pt.X, pt.Y})
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode path: %w", err)
	}
	return b, nil
}

func decodePath(b []byte) (ports.CachedPath, error) {
	var p pathPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return ports.CachedPath{}, fmt.Errorf("decode path: %w", err)
	}
	if len(p.Segments) != 3 {
		return ports.CachedPath{}, fmt.Errorf("decode path: want 3 segments, got %d", len(p.Segments))
	}

	var segs [3]domain.DubinsSegment
	for i, s := range p.Segments {
		kind, err := domain.ParseSegmentKind(s.Kind)
		if err != nil {
			return ports.CachedPath{}, fmt.Errorf("decode path: segment %d: %w", i, err)
		}
		segs[i] = domain.DubinsSegment{Kind: kind, LengthM: s.LengthM, Param: s.Param}
	}

	points := make([]domain.Point, 0, len(p.Polyline))
	for _, xy := range p.Polyline {
		points = append(points, domain.Point{X: xy[0], Y: xy[1]})
	}

	return ports.CachedPath{
		Path:     domain.NewDubinsPath(domain.PathFamily(p.Family), segs),
		Polyline: points,
	}, nil
}
