package scrollscene

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcs_MakeEcs(t *testing.T) {
	ecs := MakeEcs()

	assert.Empty(t, ecs.archetypes)
	assert.Empty(t, ecs.entityIndex)
	assert.Equal(t, EntityId(0), ecs.entityIdCounter)
	assert.Equal(t, componentId(0), ecs.componentIdCounter)
}

func TestEcs_AddEntity(t *testing.T) {
	type TestComponent struct{ x string }

	ecs := MakeEcs()
	entityId := ecs.addEntity()
	entityId2 := ecs.addEntity(TestComponent{x: "test"})

	require.Contains(t, ecs.entityIndex, entityId)
	require.Contains(t, ecs.entityIndex, entityId2)
	assert.NotEqual(t, ecs.entityIndex[entityId], ecs.entityIndex[entityId2],
		"entities with different components should not share an archetype")
	assert.Equal(t, "test", getComponent[TestComponent](&ecs, entityId2).x)
}

func TestEcs_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	ecs := MakeEcs()
	entityId := ecs.addEntity(TestComponent0{a: 1337})
	ecs.addComponents(entityId, TestComponent1{x: "test"}, TestComponent2{y: "hello"})
	ecs.addComponents(entityId, &TestComponent3{z: "test-2"})

	arch := ecs.archetypes[ecs.entityIndex[entityId]]
	assert.Len(t, arch.componentData, 4)
	assert.Equal(t, 1337, getComponent[TestComponent0](&ecs, entityId).a)
	assert.Equal(t, "hello", getComponent[TestComponent2](&ecs, entityId).y)
	assert.Equal(t, "test-2", getComponent[TestComponent3](&ecs, entityId).z)
}

func TestEcs_AddComponents_SameArchetypeOverwrites(t *testing.T) {
	type Counter struct{ n int }

	ecs := MakeEcs()
	id := ecs.addEntity(Counter{n: 1})
	before := ecs.entityIndex[id]
	ecs.addComponents(id, Counter{n: 2})

	assert.Equal(t, before, ecs.entityIndex[id])
	assert.Equal(t, 2, getComponent[Counter](&ecs, id).n)
}

func TestEcs_AddComponents_UnknownEntityPanics(t *testing.T) {
	type Counter struct{ n int }

	ecs := MakeEcs()
	assert.PanicsWithValue(t, "entity 42 does not exist", func() {
		ecs.addComponents(42, Counter{})
	})
}

func TestEcs_AddInvalidComponentShouldPanic(t *testing.T) {
	ecs := MakeEcs()
	assert.Panics(t, func() { ecs.addEntity(123) })
}

func TestEcs_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	ecs := MakeEcs()
	id1 := ecs.getComponentId(reflect.TypeOf(Position{}))
	id2 := ecs.getComponentId(reflect.TypeOf(Position{}))

	assert.Equal(t, id1, id2)
	assert.Equal(t, reflect.TypeOf(Position{}), ecs.componentIdTypeMap[id1])
}

func TestEcs_ArchetypeKey(t *testing.T) {
	key := dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3})
	assert.Equal(t, archetypeKey{1, 2, 3}, key)

	assert.Equal(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(dedupAndSortArchetypeKey(archetypeKey{2, 1, 2})))
	assert.NotEqual(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(archetypeKey{1, 3}))
}

func TestEcs_RemoveEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2})
	ecs.removeEntity(id)

	assert.NotContains(t, ecs.entityIndex, id)
	assert.Nil(t, getComponent[Position](&ecs, id))

	ecs.removeEntity(id)
}

func TestEcs_RecycledRowIsReusedAndZeroed(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Tag struct{ Name string }

	ecs := MakeEcs()
	first := ecs.addEntity(Position{1, 2}, Tag{"first"})
	second := ecs.addEntity(Position{3, 4}, Tag{"second"})
	arch := ecs.archetypes[ecs.entityIndex[first]]
	posId := ecs.getComponentId(reflect.TypeOf(Position{}))

	ecs.removeEntity(first)
	third := ecs.addEntity(Tag{"third"}, Position{})

	assert.Equal(t, 2, arch.rows)
	assert.Equal(t, 2, reflectSliceLen(arch.componentData[posId]))
	assert.Equal(t, Position{}, *getComponent[Position](&ecs, third))
	assert.Equal(t, "third", getComponent[Tag](&ecs, third).Name)
	assert.Equal(t, Position{3, 4}, *getComponent[Position](&ecs, second))
}

func TestEcs_MovedEntityLeavesItsRowBehind(t *testing.T) {
	type Position struct{ X float64 }
	type Velocity struct{ X float64 }

	ecs := MakeEcs()
	a := ecs.addEntity(Position{1})
	b := ecs.addEntity(Position{2})
	src := ecs.archetypes[ecs.entityIndex[a]]

	ecs.addComponents(a, Velocity{5})

	assert.NotContains(t, src.entities, a)
	assert.Len(t, src.recycled, 1)
	assert.Equal(t, Position{1}, *getComponent[Position](&ecs, a))
	assert.Equal(t, Velocity{5}, *getComponent[Velocity](&ecs, a))
	assert.Equal(t, Position{2}, *getComponent[Position](&ecs, b))
}

func TestGetComponent_PendingEntity(t *testing.T) {
	app := NewAppBuilder().Build()
	cmd := app.Commands()

	id := cmd.AddEntity(&TransformComponent{Position: [3]float32{1, 2, 3}})
	assert.Nil(t, GetComponent[TransformComponent](cmd, id))

	app.FlushCommands()
	require.NotNil(t, GetComponent[TransformComponent](cmd, id))
	assert.Equal(t, float32(2), GetComponent[TransformComponent](cmd, id).Position.Y())
}
