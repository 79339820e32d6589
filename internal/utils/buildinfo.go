package utils

import "runtime/debug"

const (
	unknownVersion       = "unknown"
	develVersion         = "(devel)"
	revisionSettingKey   = "vcs.revision"
	modifiedSettingKey   = "vcs.modified"
	modifiedSettingValue = "true"
	dirtySuffix          = "-dirty"
	shortRevisionLength  = 12
)

// Version is set at release time with -ldflags "-X github.com/temirov/skel/internal/utils.Version=v1.2.3".
var Version = EmptyString

// ApplicationVersion reports the version printed by --version and served by /healthz.
func ApplicationVersion() string {
	if Version != EmptyString {
		return Version
	}
	buildInfo, available := debug.ReadBuildInfo()
	if !available {
		return unknownVersion
	}
	return versionFromBuildInfo(buildInfo)
}

// versionFromBuildInfo prefers the module version, then the VCS revision stamped by go build.
func versionFromBuildInfo(buildInfo *debug.BuildInfo) string {
	if buildInfo == nil {
		return unknownVersion
	}
	if buildInfo.Main.Version != EmptyString && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	revision := EmptyString
	modified := false
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == modifiedSettingValue
		}
	}
	if revision == EmptyString {
		return unknownVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if modified {
		revision += dirtySuffix
	}
	return revision
}
