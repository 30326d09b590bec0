package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/material-cli/material/internal/component"
	"github.com/material-cli/material/internal/runtime"
)

// Bundler turns a component's sources into bundles inside Request.OutDir.
type Bundler interface {
	// Name identifies the bundler in logs.
	Name() string

	// Bundle writes every requested format into req.OutDir.
	Bundle(ctx context.Context, req Request) (*Report, error)
}

// Globals used for the browser (umd) build in place of external imports.
var umdGlobals = map[string]string{
	"vue":                  "Vue",
	runtime.DetectorModule: "VueDemi",
}

const globalNamespace = "material-global"

// EsbuildBundler bundles in-process with esbuild's Go API.
// It cannot compile single-file components (.vue); use CommandBundler for those.
type EsbuildBundler struct{}

// NewEsbuildBundler creates an EsbuildBundler.
func NewEsbuildBundler() *EsbuildBundler {
	return &EsbuildBundler{}
}

// Name implements Bundler.
func (b *EsbuildBundler) Name() string {
	return "esbuild"
}

// Bundle runs one esbuild build per requested format.
func (b *EsbuildBundler) Bundle(ctx context.Context, req Request) (*Report, error) {
	target, engines, err := parseTargets(req.Options.Target)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	externals := make(map[string]bool)
	wroteStyle := make(map[string]bool)

	for _, f := range req.Options.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opts := b.buildOptions(req, f, target, engines)
		result, err := run(ctx, opts)
		if err != nil {
			return nil, err
		}
		if len(result.Errors) > 0 {
			return nil, &BundleError{Format: string(f), Messages: result.Errors}
		}
		for _, w := range result.Warnings {
			report.Warnings = append(report.Warnings, formatMessage(w))
		}

		for _, of := range result.OutputFiles {
			name, contents := outputName(of)
			if isStyle(name) {
				// Every format emits the same stylesheet; keep the first.
				if wroteStyle[name] {
					continue
				}
				wroteStyle[name] = true
			}
			if err := os.WriteFile(filepath.Join(req.OutDir, name), contents, 0o644); err != nil {
				return nil, fmt.Errorf("writing %s: %w", name, err)
			}
		}

		for _, ext := range metafileExternals(result.Metafile) {
			externals[ext] = true
		}
	}

	for ext := range externals {
		report.Externals = append(report.Externals, ext)
	}
	sort.Strings(report.Externals)
	return report, nil
}

// run executes a build through a cancellable esbuild context.
func run(ctx context.Context, opts api.BuildOptions) (api.BuildResult, error) {
	bctx, cerr := api.Context(opts)
	if cerr != nil {
		return api.BuildResult{Errors: cerr.Errors}, nil
	}
	defer bctx.Dispose()

	stop := context.AfterFunc(ctx, bctx.Cancel)
	defer stop()

	result := bctx.Rebuild()
	if err := ctx.Err(); err != nil {
		return api.BuildResult{}, err
	}
	return result, nil
}

func (b *EsbuildBundler) buildOptions(req Request, f component.Format, target api.Target, engines []api.Engine) api.BuildOptions {
	opts := api.BuildOptions{
		EntryPoints:   []string{req.Entry},
		Bundle:        true,
		Write:         false,
		Metafile:      true,
		Outfile:       filepath.Join(req.OutDir, f.FileName()),
		AbsWorkingDir: req.SourceDir,
		Platform:      api.PlatformBrowser,
		Target:        target,
		Engines:       engines,
		External:      req.Options.Externals,
		LogLevel:      api.LogLevelSilent,
		Define: map[string]string{
			"process.env.NODE_ENV": `"production"`,
		},
		Plugins: []api.Plugin{aliasPlugin(req, f)},
	}

	switch f {
	case component.FormatES:
		opts.Format = api.FormatESModule
	case component.FormatCJS:
		opts.Format = api.FormatCommonJS
	case component.FormatUMD:
		opts.Format = api.FormatIIFE
		opts.GlobalName = req.Options.GlobalName
	}

	if req.Options.Sourcemap {
		opts.Sourcemap = api.SourceMapLinked
	}
	if !req.Options.CSS {
		opts.Loader = map[string]api.Loader{".css": api.LoaderEmpty}
	}
	return opts
}

// aliasPlugin resolves the runtime-sensitive imports for one target:
// "vue" to the version's runtime package, "vue-demi" to its version-specific
// implementation when installed, and "@/..." into the component's src/.
func aliasPlugin(req Request, f component.Format) api.Plugin {
	v := req.Target.Version
	srcDir := filepath.Join(req.SourceDir, "src")
	demiEntry := filepath.Join(req.Root, "node_modules", runtime.DetectorModule, filepath.FromSlash(v.DemiLibDir()), "index.mjs")
	browser := f == component.FormatUMD

	external := func(name, resolved string) api.OnResolveResult {
		if browser {
			return api.OnResolveResult{Path: name, Namespace: globalNamespace}
		}
		return api.OnResolveResult{Path: resolved, External: true}
	}

	return api.Plugin{
		Name: "material-alias",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^vue$`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return external("vue", v.Package()), nil
				})

			build.OnResolve(api.OnResolveOptions{Filter: `^vue-demi$`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, err := os.Stat(demiEntry); err == nil {
						return api.OnResolveResult{Path: demiEntry}, nil
					}
					return external(runtime.DetectorModule, runtime.DetectorModule), nil
				})

			build.OnResolve(api.OnResolveOptions{Filter: `^@/`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					res := build.Resolve("./"+strings.TrimPrefix(args.Path, "@/"), api.ResolveOptions{
						ResolveDir: srcDir,
						Kind:       args.Kind,
						Importer:   args.Importer,
					})
					if len(res.Errors) > 0 {
						return api.OnResolveResult{Errors: res.Errors}, nil
					}
					return api.OnResolveResult{Path: res.Path, External: res.External, Namespace: res.Namespace}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: globalNamespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					contents := fmt.Sprintf("module.exports = globalThis.%s", umdGlobals[args.Path])
					return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
				})
		},
	}
}

// outputName maps an esbuild output file to its published name. The
// stylesheet esbuild derives from the outfile is renamed to style.css.
func outputName(of api.OutputFile) (string, []byte) {
	base := filepath.Base(of.Path)
	switch {
	case strings.HasSuffix(base, ".css.map"):
		return "style.css.map", of.Contents
	case strings.HasSuffix(base, ".css"):
		old := []byte("sourceMappingURL=" + base + ".map")
		return "style.css", bytes.Replace(of.Contents, old, []byte("sourceMappingURL=style.css.map"), 1)
	default:
		return base, of.Contents
	}
}

func isStyle(name string) bool {
	return name == "style.css" || name == "style.css.map"
}

type metafile struct {
	Outputs map[string]struct {
		Imports []struct {
			Path     string `json:"path"`
			External bool   `json:"external,omitempty"`
		} `json:"imports"`
	} `json:"outputs"`
}

func metafileExternals(raw string) []string {
	if raw == "" {
		return nil
	}
	var meta metafile
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	var out []string
	for _, o := range meta.Outputs {
		for _, imp := range o.Imports {
			if imp.External {
				out = append(out, imp.Path)
			}
		}
	}
	return out
}

var esTargets = map[string]api.Target{
	"es5":    api.ES5,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

var engineNames = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

// parseTargets splits target strings such as "es2015" or "chrome58" into
// esbuild's language target and engine list.
func parseTargets(targets []string) (api.Target, []api.Engine, error) {
	target := api.DefaultTarget
	var engines []api.Engine

	for _, raw := range targets {
		t := strings.ToLower(strings.TrimSpace(raw))
		if es, ok := esTargets[t]; ok {
			target = es
			continue
		}

		i := strings.IndexFunc(t, func(r rune) bool { return r >= '0' && r <= '9' })
		if i <= 0 {
			return 0, nil, fmt.Errorf("unsupported build target %q", raw)
		}
		name, ok := engineNames[t[:i]]
		if !ok {
			return 0, nil, fmt.Errorf("unsupported build target %q", raw)
		}
		engines = append(engines, api.Engine{Name: name, Version: t[i:]})
	}
	return target, engines, nil
}
