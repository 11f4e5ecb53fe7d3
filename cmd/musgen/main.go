package main

import (
	"os"
	"reflect"
	"strings"
	"time"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/glimpse/core"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// go generate runs from core/
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/glimpse/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.AssetID]())
	g.AddDefinedType(reflect.TypeFor[core.MediaType]())
	g.AddDefinedType(reflect.TypeFor[time.Duration]())

	// Unix micro timestamps
	micro := typeops.WithTimeUnit(typeops.Micro)

	structs := []struct {
		t      reflect.Type
		fields []structops.SetOption
	}{
		{t: reflect.TypeFor[core.Coordinate]()},
		{t: reflect.TypeFor[core.Asset](), fields: []structops.SetOption{
			structops.WithField(), // ID
			structops.WithField(), // Path
			structops.WithField(micro),
			structops.WithField(), // Location
			structops.WithField(), // MediaType
			structops.WithField(), // DurationSeconds
			structops.WithField(), // People
			structops.WithField(), // IsSelfie
			structops.WithField(micro),
			structops.WithField(micro),
		}},
		{t: reflect.TypeFor[core.ActivityRecord](), fields: []structops.SetOption{
			structops.WithField(),
			structops.WithField(),
			structops.WithField(),
			structops.WithField(),
			structops.WithField(),
			structops.WithField(),
			structops.WithField(micro),
		}},
		{t: reflect.TypeFor[core.BuildStats]()},
		{t: reflect.TypeFor[core.Checkpoint](), fields: []structops.SetOption{
			structops.WithField(),
			structops.WithField(),
			structops.WithField(),
			structops.WithField(micro),
		}},
		{t: reflect.TypeFor[core.Posting]()},
		{t: reflect.TypeFor[core.AssetHash]()},
		{t: reflect.TypeFor[core.AssetLabelList]()},
		{t: reflect.TypeFor[core.GeoSnapshotRecord]()},
		{t: reflect.TypeFor[core.LabelSnapshotRecord]()},
		{t: reflect.TypeFor[core.ActivitySnapshotRecord]()},
	}
	for _, s := range structs {
		if err := g.AddStruct(s.t, s.fields...); err != nil {
			panic(err)
		}
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/mus_format.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
