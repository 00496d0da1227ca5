package main

import (
	"context"
	"flag"
	"fmt"
	"haul-turn-planner/internal/adapters/repositories"
	"haul-turn-planner/internal/config"
	"haul-turn-planner/internal/domain"
	"haul-turn-planner/internal/render"
	"haul-turn-planner/internal/services"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "turnplot")

var (
	startFlag     = flag.String("start", "0,0,0", "start pose x,y,heading_deg")
	goalFlag      = flag.String("goal", "", "goal pose x,y,heading_deg")
	profileFlag   = flag.String("profile", "komatsu_830e", "vehicle profile id")
	profilesPath  = flag.String("profiles", "", "extra vehicle profile YAML file")
	stepFlag      = flag.Float64("step", 0.5, "sampling step size in meters")
	movementsPath = flag.String("movements", "", "movement seed JSON file")
	intersection  = flag.String("intersection", "", "plan every movement of this intersection from -movements")
	outPath       = flag.String("out", "turns.png", "output image (png, svg or pdf)")
	logLevel      = flag.String("log.level", "warn", "log level (trace debug info warn error critical off)")
)

func main() {
	flag.Parse()

	level, err := config.ParseLogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logrus.SetLevel(level)

	registry, err := domain.NewProfileRegistry(domain.DefaultProfiles())
	if err != nil {
		log.Fatal(err)
	}
	if *profilesPath != "" {
		extra, err := config.LoadProfiles(*profilesPath)
		if err != nil {
			log.Fatal(err)
		}
		if registry, err = registry.With(extra); err != nil {
			log.Fatal(err)
		}
	}

	plans, title, err := plan(context.Background(), registry)
	if err != nil {
		log.Fatal(err)
	}

	printPlans(plans)

	if err := render.RenderTurns(plans, title, *outPath); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *outPath)
}

func plan(ctx context.Context, registry *domain.ProfileRegistry) ([]*domain.TurnPlan, string, error) {
	if *intersection != "" {
		if *movementsPath == "" {
			return nil, "", fmt.Errorf("-intersection requires -movements")
		}
		provider, err := repositories.LoadMemoryIntersectionRepository(*movementsPath)
		if err != nil {
			return nil, "", err
		}
		plans, err := services.PlanIntersectionTurns(ctx, services.PlanIntersectionRequest{
			IntersectionID: *intersection,
			ProfileID:      *profileFlag,
			StepSizeM:      *stepFlag,
		}, registry, provider, nil)
		return plans, fmt.Sprintf("%s (%s)", *intersection, *profileFlag), err
	}

	start, err := parsePose(*startFlag)
	if err != nil {
		return nil, "", fmt.Errorf("-start: %w", err)
	}
	if *goalFlag == "" {
		return nil, "", fmt.Errorf("-goal or -intersection is required")
	}
	goal, err := parsePose(*goalFlag)
	if err != nil {
		return nil, "", fmt.Errorf("-goal: %w", err)
	}

	profile, err := registry.Lookup(*profileFlag)
	if err != nil {
		return nil, "", err
	}
	p, err := services.PlanProfilePath(ctx, start, goal, *profileFlag, profile, *stepFlag, nil)
	if err != nil {
		return nil, "", err
	}
	return []*domain.TurnPlan{p}, fmt.Sprintf("%s (%s)", p.Path.Family(), *profileFlag), nil
}

// parsePose reads "x,y,heading_deg".
func parsePose(s string) (domain.Pose, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Pose{}, fmt.Errorf("pose %q must be x,y,heading_deg: %w", s, domain.ErrInvalidParameter)
	}

	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.Pose{}, fmt.Errorf("pose %q: %v: %w", s, err, domain.ErrInvalidParameter)
		}
		v[i] = f
	}
	return domain.Pose{X: v[0], Y: v[1], Theta: v[2] * math.Pi / 180}, nil
}

func printPlans(plans []*domain.TurnPlan) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FROM\tTO\tFAMILY\tLENGTH_M\tPOLYLINE_M\tRADIUS_M\tPOINTS")
	for _, p := range plans {
		from, to := p.FromRoadID, p.ToRoadID
		if from == "" {
			from, to = "-", "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%d\n",
			from, to, p.Path.Family(), p.Path.TotalLengthM(), domain.PolylineLength(p.Polyline), p.TurningRadiusM, len(p.Polyline))
	}
	tw.Flush()
}
