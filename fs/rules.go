package fs

import (
	"os"

	"github.com/fwojciec/docbase"
	"gopkg.in/yaml.v3"
)

// LoadTagRules reads a tag-detection ruleset from a YAML file:
//
//	rules:
//	  - tag: deployment
//	    patterns: ["deploy", "kubernetes", "helm"]
//	  - tag: api
//	    patterns: ["endpoint", "rest api"]
//
// A missing file is not an error; it yields an empty ruleset so tagging is
// simply disabled.
func LoadTagRules(path string) ([]docbase.TagRule, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var file struct {
		Rules []docbase.TagRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "tag ruleset %q: %s", path, err)
	}
	return file.Rules, nil
}
