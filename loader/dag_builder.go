// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"github.com/linuxdeepin/go-lib/log"
)

// dag holds module names and the edges from a dependency to the modules
// depending on it.
type dag struct {
	ids      []string
	nodes    map[string]struct{}
	edges    map[string][]string
	indegree map[string]int
}

func newDAG() *dag {
	return &dag{
		nodes:    make(map[string]struct{}),
		edges:    make(map[string][]string),
		indegree: make(map[string]int),
	}
}

// addNode reports whether id was not present before.
func (g *dag) addNode(id string) bool {
	if _, ok := g.nodes[id]; ok {
		return false
	}
	g.nodes[id] = struct{}{}
	g.ids = append(g.ids, id)
	return true
}

func (g *dag) removeNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	for _, to := range g.edges[id] {
		g.indegree[to]--
	}
	delete(g.edges, id)
	for i, v := range g.ids {
		if v == id {
			g.ids = append(g.ids[:i], g.ids[i+1:]...)
			break
		}
	}
}

func (g *dag) addEdge(from, to string) {
	for _, v := range g.edges[from] {
		if v == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
	g.indegree[to]++
}

// topoSort orders the nodes so that dependencies come first. ok is false
// when the edges contain a cycle.
func (g *dag) topoSort() (ids []string, ok bool) {
	indegree := make(map[string]int, len(g.indegree))
	for id, n := range g.indegree {
		indegree[id] = n
	}
	var queue []string
	for _, id := range g.ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	for len(queue) != 0 {
		id := queue[0]
		queue = queue[1:]
		ids = append(ids, id)
		for _, to := range g.edges[id] {
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}
	return ids, len(ids) == len(g.ids)
}

type DAGBuilder struct {
	modules         Modules
	enablingModules []string
	disableModules  map[string]struct{}
	flag            EnableFlag

	log *log.Logger

	dag *dag
}

func NewDAGBuilder(loader *Loader, enablingModules []string, disableModules []string, flag EnableFlag) *DAGBuilder {
	disableModulesMap := map[string]struct{}{}
	for _, name := range disableModules {
		if _, ok := loader.modules[name]; !ok {
			loader.log.Warningf("disabled module(%s) does not exist", name)
			continue
		}
		disableModulesMap[name] = struct{}{}
	}

	return &DAGBuilder{
		modules:         loader.modules,
		enablingModules: enablingModules,
		disableModules:  disableModulesMap,
		flag:            flag,
		log:             loader.log,
		dag:             newDAG(),
	}
}

func (builder *DAGBuilder) buildDAG() error {
	queue := make([]string, 0, len(builder.enablingModules))
	for _, name := range builder.enablingModules {
		if builder.dag.addNode(name) {
			queue = append(queue, name)
		}
	}
	for len(queue) != 0 {
		name := queue[0]
		queue = queue[1:]
		module, ok := builder.modules[name]
		if !ok {
			if builder.flag.HasFlag(EnableFlagIgnoreMissingModule) {
				builder.log.Info("no such a module named", name)
				builder.dag.removeNode(name)
				continue
			}
			return &EnableError{ModuleName: name, Code: ErrorMissingModule}
		}
		if _, ok := builder.disableModules[name]; ok {
			if !builder.flag.HasFlag(EnableFlagForceStart) {
				return &EnableError{ModuleName: name, Code: ErrorConflict}
			}
		}
		for _, dependency := range module.GetDependencies() {
			if builder.dag.addNode(dependency) {
				queue = append(queue, dependency)
			}
			builder.dag.addEdge(dependency, name)
		}
	}
	return nil
}

// Execute returns the modules to enable, dependencies first.
func (builder *DAGBuilder) Execute() ([]string, error) {
	err := builder.buildDAG()
	if err != nil {
		return nil, err
	}
	ids, ok := builder.dag.topoSort()
	if !ok {
		return nil, &EnableError{Code: ErrorCircleDependencies}
	}
	return ids, nil
}
