package tiffconvert

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/dipsoh/tiffconvert/utils"
)

// ResolveIdentity derives the raster kind and the registry/map identifiers
// from a source filename. Well-formed names (containing the configured
// prefix marker) parse deterministically; anything else falls through to a
// random map id. It never fails.
func ResolveIdentity(filename string, bands int, cfg *Config) (id Identity) {
	if bands <= ELEVATION_MAX_BANDS {
		id.Kind = KindElevation
	}
	var (
		prefix     = cfg.FilenamePrefix
		suffix     = cfg.FilenameSuffix
		wellFormed = strings.Contains(filename, prefix)
	)
	if id.Kind == KindElevation {
		if wellFormed {
			rest, _, _ := strings.Cut(strings.SplitN(filename, prefix, 2)[1], suffix)
			id.MapId = utils.RemoveExt(rest)
			id.RegistroId = strings.SplitN(filename, prefix, 2)[0]
		} else {
			id.MapId = randomMapId()
			base, _, _ := strings.Cut(filename, suffix)
			id.RegistroId = truncateVersion(utils.RemoveExt(base))
		}
	} else {
		if wellFormed {
			id.MapId = utils.RemoveExt(strings.SplitN(filename, prefix, 2)[1])
			id.RegistroId = strings.SplitN(filename, "_", 2)[0]
		} else {
			id.MapId = randomMapId()
			id.RegistroId = truncateVersion(utils.RemoveExt(filename))
		}
	}
	id.OutputBase = id.RegistroId + prefix + id.MapId
	if id.Kind == KindElevation {
		id.OutputBase += suffix
	}
	return
}

// truncateVersion drops a trailing "-<version>" suffix, left behind when one
// registro holds several maps.
func truncateVersion(name string) string {
	head, _, _ := strings.Cut(name, "-")
	return head
}

func randomMapId() string {
	buf := make([]byte, MAP_ID_RANDOM_BYTES)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
