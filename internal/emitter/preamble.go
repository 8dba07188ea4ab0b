package emitter

// Preamble is the fixed Lua prologue every emitted Program begins with
// (§6.3). It is emitted once, verbatim, byte-for-byte identical across runs
// and inputs — the test suite pins it by exact string equality.
const Preamble = `local __ls = {}

function __ls.iter(x)
  if type(x) == "function" then
    return x
  end
  if type(x) == "table" and type(x.next) == "function" then
    return function()
      local v, done = x:next()
      if done then return nil end
      return v
    end
  end
  if type(x) == "string" then
    local i = 0
    return function()
      i = i + 1
      if i > #x then return nil end
      return x:sub(i, i)
    end
  end
  local i = 0
  return function()
    i = i + 1
    if x[i] == nil then return nil end
    return x[i]
  end
end

function __ls.apply(f, args)
  return f(table.unpack(args))
end

function __ls.rest_array(t, from)
  local r = {}
  for i = from, #t do
    r[#r + 1] = t[i]
  end
  return r
end

function __ls.rest_object(t, excluded)
  local omit = {}
  for _, k in ipairs(excluded) do
    omit[k] = true
  end
  local r = {}
  for k, v in pairs(t) do
    if not omit[k] then
      r[k] = v
    end
  end
  return r
end

function __ls.extend(t, src)
  for _, v in ipairs(src) do
    t[#t + 1] = v
  end
  return t
end

function __ls.assign(dst, src)
  for k, v in pairs(src) do
    dst[k] = v
  end
  return dst
end

function __ls.idiv(a, b)
  return math.floor(a / b)
end

-- Bitwise helpers are written in portable arithmetic, not the native 5.3+
-- operators, so the preamble still loads under stock Lua 5.1 and LuaJIT.
local function __ls_tobits(x)
  x = x % 4294967296
  local bits = {}
  for i = 1, 32 do
    bits[i] = x % 2
    x = (x - bits[i]) / 2
  end
  return bits
end

local function __ls_frombits(bits)
  local x = 0
  for i = 32, 1, -1 do
    x = x * 2 + bits[i]
  end
  return x
end

function __ls.band(a, b)
  local ba, bb, r = __ls_tobits(a), __ls_tobits(b), {}
  for i = 1, 32 do r[i] = (ba[i] == 1 and bb[i] == 1) and 1 or 0 end
  return __ls_frombits(r)
end

function __ls.bor(a, b)
  local ba, bb, r = __ls_tobits(a), __ls_tobits(b), {}
  for i = 1, 32 do r[i] = (ba[i] == 1 or bb[i] == 1) and 1 or 0 end
  return __ls_frombits(r)
end

function __ls.bxor(a, b)
  local ba, bb, r = __ls_tobits(a), __ls_tobits(b), {}
  for i = 1, 32 do r[i] = (ba[i] ~= bb[i]) and 1 or 0 end
  return __ls_frombits(r)
end

function __ls.bnot(a)
  local ba, r = __ls_tobits(a), {}
  for i = 1, 32 do r[i] = (ba[i] == 1) and 0 or 1 end
  return __ls_frombits(r)
end

function __ls.shl(a, n)
  return (a * (2 ^ n)) % 4294967296
end

function __ls.shr(a, n)
  return math.floor((a % 4294967296) / (2 ^ n))
end

function __ls.await(x)
  if type(x) == "table" and type(x.next) == "function" then
    return coroutine.yield(x)
  end
  return x
end

function __ls.typeof(x)
  if x == nil then return "undefined" end
  local t = type(x)
  if t == "table" then return "object" end
  return t
end

console = { log = function(...) print(...) end }
undefined = nil
`
